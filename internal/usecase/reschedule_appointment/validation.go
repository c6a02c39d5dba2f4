package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return domain.NewValidationError("appointment_id", "must be positive")
	}
	if req.Date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}
	if req.StartTime.IsZero() {
		return domain.NewValidationError("start_time", "is required")
	}
	if err := req.StartTime.Validate(); err != nil {
		return domain.NewValidationError("start_time", "invalid time format")
	}
	return nil
}

// checkEligible переносить можно только оплаченные через maya записи в pending/approved
func checkEligible(a *domain.Appointment) error {
	if !a.CanBeRescheduled() {
		return domain.NewStateConflictError(string(a.Status),
			"only appointments paid via maya in pending or approved status can be rescheduled")
	}
	return nil
}

// lockOrder даты для блокировки по возрастанию, без повторов
func lockOrder(a, b time.Time) []time.Time {
	a, b = domain.DateOnly(a), domain.DateOnly(b)
	switch {
	case a.Equal(b):
		return []time.Time{a}
	case a.Before(b):
		return []time.Time{a, b}
	default:
		return []time.Time{b, a}
	}
}
