package get_appointment_by_code

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByReferenceCode(ctx context.Context, code string, actor domain.Actor) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
