package admission

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// ScheduleResolver резолвер расписания клиники
type ScheduleResolver interface {
	ResolveDay(ctx context.Context, date time.Time) (*domain.ClinicDaySnapshot, error)
}

// AppointmentRepository чтение записей на дату
type AppointmentRepository interface {
	GetByDate(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// Metrics счетчик отказов по вместимости
type Metrics interface {
	IncCapacityDenied(stage string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
