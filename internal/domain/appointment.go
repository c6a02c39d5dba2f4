package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// PaymentMethod how the patient pays for the appointment
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodMaya PaymentMethod = "maya"
	PaymentMethodHMO  PaymentMethod = "hmo"
)

// IsValid reports whether the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMaya, PaymentMethodHMO:
		return true
	}
	return false
}

// AppointmentPaymentStatus payment state mirrored on the appointment row
type AppointmentPaymentStatus string

const (
	AppointmentUnpaid          AppointmentPaymentStatus = "unpaid"
	AppointmentAwaitingPayment AppointmentPaymentStatus = "awaiting_payment"
	AppointmentPaid            AppointmentPaymentStatus = "paid"
	AppointmentRefunded        AppointmentPaymentStatus = "refunded"
)

// Appointment a booked visit occupying one or more consecutive blocks
type Appointment struct {
	ID             int64
	PatientID      int64
	ServiceID      int64
	PatientHMOID   *int64
	Date           time.Time
	TimeSlot       types.TimeRange
	ReferenceCode  string
	Status         AppointmentStatus
	PaymentMethod  PaymentMethod
	PaymentStatus  AppointmentPaymentStatus
	TeethCount     *int
	Notes          *string
	RemindedAt     *time.Time
	CanceledAt     *time.Time
	CancelReason   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardCapacity returns true if the appointment occupies its blocks
func (a *Appointment) CountsTowardCapacity() bool {
	for _, s := range CommittedStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transition is allowed
func (a *Appointment) IsTerminal() bool {
	for _, s := range TerminalStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// IsPaidViaMaya returns true for an online payment that has settled
func (a *Appointment) IsPaidViaMaya() bool {
	return a.PaymentMethod == PaymentMethodMaya && a.PaymentStatus == AppointmentPaid
}

// CanBeRescheduled only settled maya appointments that are still active may move
func (a *Appointment) CanBeRescheduled() bool {
	return a.IsPaidViaMaya() && (a.Status == StatusPending || a.Status == StatusApproved)
}

// StartsAt returns the scheduled start in the clinic's location
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return a.TimeSlot.Start.On(a.Date, loc)
}

// Clone returns a copy safe to mutate (used for audit before/after)
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// InitialPaymentStatus payment status of a freshly created appointment
func InitialPaymentStatus(method PaymentMethod) AppointmentPaymentStatus {
	if method == PaymentMethodMaya {
		return AppointmentAwaitingPayment
	}
	return AppointmentUnpaid
}

// AppointmentFilter filter for listing appointments of a date
type AppointmentFilter struct {
	Date      time.Time
	PatientID *int64
	// Only capacity-relevant statuses when false
	IncludeInactive bool
}
