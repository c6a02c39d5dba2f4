package domain

import "time"

// RefundStatus status of a refund request
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundApproved  RefundStatus = "approved"
	RefundRejected  RefundStatus = "rejected"
	RefundProcessed RefundStatus = "processed"
)

// RefundRequest money owed back to a patient after a paid cancellation
type RefundRequest struct {
	ID                 int64
	PatientID          int64
	AppointmentID      int64
	PaymentID          int64
	OriginalAmount     float64
	CancellationFee    float64
	RefundAmount       float64
	Status             RefundStatus
	AdminNote          *string
	RequestedAt        time.Time
	ProcessedAt        *time.Time
	DeadlineAt         *time.Time
	PatientConfirmedAt *time.Time
}

// IsPatientConfirmed returns true once the patient acknowledged receipt
func (r *RefundRequest) IsPatientConfirmed() bool {
	return r.PatientConfirmedAt != nil
}

// RefundSetting singleton refund policy configuration
type RefundSetting struct {
	CancellationDeadlineHours int
	MonthlyCancellationLimit  int // 0 = unlimited
	CreateZeroRefundRequest   bool
	ReminderDays              int
}

// DefaultRefundSetting used when the settings row is missing
func DefaultRefundSetting() RefundSetting {
	return RefundSetting{
		CancellationDeadlineHours: DefaultCancellationDeadlineHrs,
		ReminderDays:              DefaultRefundReminderDays,
	}
}

// RefundQuote computed amounts of a refund
type RefundQuote struct {
	OriginalAmount  float64
	CancellationFee float64
	RefundAmount    float64
}
