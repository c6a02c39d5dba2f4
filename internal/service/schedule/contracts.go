package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания клиники
type ScheduleRepository interface {
	GetOverride(ctx context.Context, date time.Time) (*domain.CalendarOverrideEntry, error)
	GetWeeklyDefault(ctx context.Context, weekday int) (*domain.WeeklyDefaultEntry, error)
	GetCapacityPlan(ctx context.Context, date time.Time) (*domain.CapacityPlanEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
