package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission is a contact-form message. All fields are free text; empty
// strings are accepted.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}

// Notifier forwards an accepted submission somewhere useful (a queue, a
// mailbox). It is injected so delivery can change without touching the
// intake contract.
type Notifier interface {
	Notify(ctx context.Context, id string, sub Submission) error
}

// Intake accepts submissions and acknowledges receipt. Notification is
// fire-and-forget: a notifier failure is logged, never surfaced to the
// submitter.
type Intake struct {
	notifier Notifier
	logger   *zap.Logger
}

func NewIntake(notifier Notifier, logger *zap.Logger) *Intake {
	return &Intake{notifier: notifier, logger: logger}
}

func (i *Intake) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	receipt := Receipt{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now(),
	}

	if i.notifier != nil {
		if err := i.notifier.Notify(ctx, receipt.ID, sub); err != nil {
			i.logger.Warn("contact notification failed",
				zap.String("submission_id", receipt.ID),
				zap.Error(err))
		}
	}

	i.logger.Info("contact submission received",
		zap.String("submission_id", receipt.ID),
		zap.String("subject", sub.Subject))

	return receipt, nil
}
