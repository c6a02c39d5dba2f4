package list_appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByDate(ctx context.Context, date time.Time, includeInactive bool, actor domain.Actor) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
