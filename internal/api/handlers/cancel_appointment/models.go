package cancel_appointment

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	cancelAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model (тело опционально)
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	Appointment          *models.AppointmentResponse `json:"appointment"`
	RefundRequestCreated bool                        `json:"refundRequestCreated"`
	Refund               *models.RefundResponse      `json:"refund,omitempty"`
	Quote                *RefundQuote                `json:"quote,omitempty"`
}

// RefundQuote расчет возврата
type RefundQuote struct {
	OriginalAmount  float64 `json:"originalAmount"`
	CancellationFee float64 `json:"cancellationFee"`
	RefundAmount    float64 `json:"refundAmount"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	out := &CancelAppointmentResponse{
		Appointment:          models.FromDomainAppointment(resp.Appointment),
		RefundRequestCreated: resp.RefundRequestCreated,
	}
	if resp.Refund != nil {
		out.Refund = models.FromDomainRefund(resp.Refund)
	}
	if resp.Quote != nil {
		out.Quote = &RefundQuote{
			OriginalAmount:  resp.Quote.OriginalAmount,
			CancellationFee: resp.Quote.CancellationFee,
			RefundAmount:    resp.Quote.RefundAmount,
		}
	}
	return out
}
