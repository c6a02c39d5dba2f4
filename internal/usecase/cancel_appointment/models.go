package cancel_appointment

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// Request модель запроса на отмену записи
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
	Reason        *string // Причина отмены (опционально)
}

// Response модель ответа на отмену
type Response struct {
	Appointment          *domain.Appointment
	RefundRequestCreated bool
	Refund               *domain.RefundRequest // nil, если заявка не создана
	Quote                *domain.RefundQuote   // nil, если запись не была оплачена через maya
}
