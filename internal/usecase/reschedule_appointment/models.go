package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
	Date          time.Time        // Новая дата
	StartTime     types.TimeString // Новое время начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	Appointment *domain.Appointment
}
