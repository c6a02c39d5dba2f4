package cancel_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return domain.NewValidationError("appointment_id", "must be positive")
	}
	if !req.Actor.Role.IsValid() {
		return domain.NewValidationError("role", "unknown role")
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return domain.NewValidationError("reason", fmt.Sprintf("must be at most %d characters", domain.MaxCancellationReasonLength))
	}
	return nil
}

// checkTransition допустимость отмены
// pending отменяется всегда; approved - при статусе оплаты unpaid/awaiting_payment/paid
// или администратором
func checkTransition(a *domain.Appointment, actor domain.Actor) error {
	if a.IsTerminal() {
		return domain.AlreadyProcessed(a.Status)
	}
	if a.Status != domain.StatusApproved {
		return nil
	}

	switch a.PaymentStatus {
	case domain.AppointmentUnpaid, domain.AppointmentAwaitingPayment, domain.AppointmentPaid:
		return nil
	}
	if actor.IsAdmin() {
		return nil
	}
	return domain.NewAuthorizationError("transition",
		fmt.Sprintf("only an admin may cancel an approved appointment with payment status %s", a.PaymentStatus))
}
