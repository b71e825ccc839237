package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{9.99, "$9.99"},
		{81, "$81.00"},
		{6.004, "$6.00"},
		{1234.5, "$1234.50"},
		{-3.5, "-$3.50"},
		{0.005, "$0.01"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.amount), "amount %v", tc.amount)
	}
}
