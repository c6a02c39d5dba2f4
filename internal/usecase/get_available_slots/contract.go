package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// ServiceCatalog каталог услуг клиники
type ServiceCatalog interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleResolver расписание клиники на дату
type ScheduleResolver interface {
	ResolveDay(ctx context.Context, date time.Time) (*domain.ClinicDaySnapshot, error)
}

// Admission окно бронирования и занятость даты
type Admission interface {
	CheckWindow(date time.Time, staffAssisted bool) error
	LoadCommitted(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	Now() time.Time
}

// PatientDirectory справочник пациентов (проверка доступа к чужим записям)
type PatientDirectory interface {
	ResolveByUser(ctx context.Context, userID int64) (*domain.Patient, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
