package enums

import "fmt"

// PaymentStatus maps to the payment_status enum in Postgres.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusFailed:   {PaymentStatusPending},
	PaymentStatusRefunded: {},
}

// IsValid checks whether the given status matches the canonical enum.
func (s PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo consults the payment transition table.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, candidate := range paymentTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw strings into PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
