package approve_appointment

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// Request модель запроса на одобрение записи
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
}

// Response модель ответа с одобренной записью
type Response struct {
	Appointment *domain.Appointment
}
