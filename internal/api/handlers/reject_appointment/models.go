package reject_appointment

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	rejectAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/reject_appointment"
)

// RejectAppointmentRequest HTTP request model
type RejectAppointmentRequest struct {
	Note string `json:"note" validate:"required"`
}

// RejectAppointmentResponse HTTP response model
type RejectAppointmentResponse struct {
	Appointment       *models.AppointmentResponse `json:"appointment"`
	PaymentsCancelled int64                       `json:"paymentsCancelled"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rejectAppointment.Response) *RejectAppointmentResponse {
	return &RejectAppointmentResponse{
		Appointment:       models.FromDomainAppointment(resp.Appointment),
		PaymentsCancelled: resp.PaymentsCancelled,
	}
}
