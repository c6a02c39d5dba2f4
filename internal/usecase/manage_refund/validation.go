package manage_refund

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RefundID <= 0 {
		return domain.NewValidationError("refund_id", "must be positive")
	}
	switch req.Action {
	case ActionApprove, ActionReject, ActionProcess, ActionConfirm:
	default:
		return domain.NewValidationError("action", "must be one of approve, reject, process, confirm")
	}
	if req.Note != nil && len(*req.Note) > domain.MaxNotesLength {
		return domain.NewValidationError("note", fmt.Sprintf("must be at most %d characters", domain.MaxNotesLength))
	}
	return nil
}

// checkActor approve/reject/process - администратор, confirm - пациент
func checkActor(action Action, actor domain.Actor) error {
	if action == ActionConfirm {
		if actor.Role != domain.RolePatient {
			return domain.NewAuthorizationError("role", "only the patient may confirm a refund")
		}
		return nil
	}
	if !actor.IsAdmin() {
		return domain.NewAuthorizationError("role", "only admins may manage refunds")
	}
	return nil
}

// requiredStatus статус заявки, из которого допустимо действие
func requiredStatus(action Action) domain.RefundStatus {
	switch action {
	case ActionProcess:
		return domain.RefundApproved
	case ActionConfirm:
		return domain.RefundProcessed
	}
	return domain.RefundPending
}
