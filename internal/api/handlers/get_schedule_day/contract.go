package get_schedule_day

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

type ScheduleResolver interface {
	ResolveDay(ctx context.Context, date time.Time) (*domain.ClinicDaySnapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
