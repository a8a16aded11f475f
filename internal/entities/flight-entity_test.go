package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	testCases := []struct {
		name     string
		amount   float64
		paid     float64
		expected string
	}{
		{"nothing paid", 1000000, 0, PaymentPending},
		{"partially paid", 1000000, 400000, PaymentPartial},
		{"fully paid", 1000000, 1000000, PaymentPaid},
		{"overpaid", 1000000, 1200000, PaymentPaid},
		{"zero amount counts as paid", 0, 0, PaymentPaid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DerivePaymentStatus(tc.amount, tc.paid))
		})
	}
}
