package domain

import "time"

// PaymentStatus status of a payment row
type PaymentStatus string

const (
	PaymentUnpaid          PaymentStatus = "unpaid"
	PaymentAwaitingPayment PaymentStatus = "awaiting_payment"
	PaymentPaid            PaymentStatus = "paid"
	PaymentFailed          PaymentStatus = "failed"
	PaymentCancelled       PaymentStatus = "cancelled"
	PaymentRefunded        PaymentStatus = "refunded"
)

// OutstandingPaymentStatuses payments that may still be settled
var OutstandingPaymentStatuses = []PaymentStatus{
	PaymentUnpaid,
	PaymentAwaitingPayment,
}

// Payment belongs to exactly one of an appointment or a walk-in visit
type Payment struct {
	ID            int64
	AppointmentID *int64
	VisitID       *int64
	Method        PaymentMethod
	Status        PaymentStatus
	AmountDue     float64
	AmountPaid    float64
	PaidAt        *time.Time
	CancelledAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOutstanding returns true if the payment is still open
func (p *Payment) IsOutstanding() bool {
	for _, s := range OutstandingPaymentStatuses {
		if p.Status == s {
			return true
		}
	}
	return false
}
