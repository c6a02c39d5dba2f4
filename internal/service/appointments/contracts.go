package appointments

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// AppointmentRepository интерфейс чтения записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByReferenceCode(ctx context.Context, code string) (*domain.Appointment, error)
	GetByDate(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// PatientDirectory справочник пациентов
type PatientDirectory interface {
	ResolveByUser(ctx context.Context, userID int64) (*domain.Patient, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
