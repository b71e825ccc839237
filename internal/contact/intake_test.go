package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockNotifier struct {
	calls []Submission
	ids   []string
	err   error
}

func (m *mockNotifier) Notify(_ context.Context, id string, sub Submission) error {
	m.calls = append(m.calls, sub)
	m.ids = append(m.ids, id)
	return m.err
}

func TestSubmit_AcknowledgesAndNotifies(t *testing.T) {
	notifier := &mockNotifier{}
	sut := NewIntake(notifier, zap.NewNop())

	sub := Submission{
		Name:    "Ana",
		Email:   "ana@example.com",
		Subject: "Order question",
		Message: "Where is my rattle?",
	}
	receipt, err := sut.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.ID)
	assert.False(t, receipt.ReceivedAt.IsZero())
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, sub, notifier.calls[0])
	assert.Equal(t, receipt.ID, notifier.ids[0])
}

func TestSubmit_EmptyFieldsAccepted(t *testing.T) {
	sut := NewIntake(&mockNotifier{}, zap.NewNop())

	receipt, err := sut.Submit(context.Background(), Submission{})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
}

func TestSubmit_NotifierFailureDoesNotFailIntake(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("broker unreachable")}
	sut := NewIntake(notifier, zap.NewNop())

	receipt, err := sut.Submit(context.Background(), Submission{Subject: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
}

func TestSubmit_NoNotifierConfigured(t *testing.T) {
	sut := NewIntake(nil, zap.NewNop())

	receipt, err := sut.Submit(context.Background(), Submission{Subject: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
}

func TestSubmit_ReceiptsAreUnique(t *testing.T) {
	sut := NewIntake(nil, zap.NewNop())

	a, err := sut.Submit(context.Background(), Submission{})
	require.NoError(t, err)
	b, err := sut.Submit(context.Background(), Submission{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
