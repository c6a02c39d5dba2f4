package record_payment

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	recordPayment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/record_payment"
)

// RecordPaymentRequest уведомление шлюза об оплате
type RecordPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// RecordPaymentResponse HTTP response model
type RecordPaymentResponse struct {
	Payment     *models.PaymentResponse     `json:"payment"`
	Appointment *models.AppointmentResponse `json:"appointment,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recordPayment.Response) *RecordPaymentResponse {
	out := &RecordPaymentResponse{Payment: models.FromDomainPayment(resp.Payment)}
	if resp.Appointment != nil {
		out.Appointment = models.FromDomainAppointment(resp.Appointment)
	}
	return out
}
