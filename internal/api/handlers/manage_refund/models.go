package manage_refund

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	manageRefund "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/manage_refund"
)

// ManageRefundRequest HTTP request model (тело опционально)
type ManageRefundRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ManageRefundResponse HTTP response model
type ManageRefundResponse struct {
	Refund      *models.RefundResponse      `json:"refund"`
	Appointment *models.AppointmentResponse `json:"appointment,omitempty"`
}

// parseAction разбирает действие из пути
func parseAction(raw string) (manageRefund.Action, bool) {
	action := manageRefund.Action(raw)
	switch action {
	case manageRefund.ActionApprove, manageRefund.ActionReject, manageRefund.ActionProcess, manageRefund.ActionConfirm:
		return action, true
	}
	return "", false
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *manageRefund.Response) *ManageRefundResponse {
	out := &ManageRefundResponse{Refund: models.FromDomainRefund(resp.Refund)}
	if resp.Appointment != nil {
		out.Appointment = models.FromDomainAppointment(resp.Appointment)
	}
	return out
}
