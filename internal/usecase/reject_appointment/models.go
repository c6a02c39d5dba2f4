package reject_appointment

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// Request модель запроса на отклонение записи
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
	Note          string // Причина отклонения (обязательна)
}

// Response модель ответа с отклоненной записью
type Response struct {
	Appointment       *domain.Appointment
	PaymentsCancelled int64 // Сколько неоплаченных платежей отменено
}
