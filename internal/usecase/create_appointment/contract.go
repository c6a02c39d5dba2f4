package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	LockDate(ctx context.Context, date time.Time) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
}

// ServiceCatalog каталог услуг клиники
type ServiceCatalog interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// PatientDirectory справочник пациентов
type PatientDirectory interface {
	ResolveByUser(ctx context.Context, userID int64) (*domain.Patient, error)
	GetPatient(ctx context.Context, patientID int64) (*domain.Patient, error)
	CreatePatient(ctx context.Context, fields domain.NewPatientFields) (*domain.Patient, error)
	GetStatus(ctx context.Context, patientID int64) (*domain.PatientStatus, error)
	GetHMO(ctx context.Context, hmoID int64) (*domain.PatientHMO, error)
}

// Admission общие проверки допуска записи на слот
type Admission interface {
	CheckWindow(date time.Time, staffAssisted bool) error
	OpenStart(ctx context.Context, date time.Time, start types.TimeString) (*domain.ClinicDaySnapshot, error)
	FitSlot(day *domain.ClinicDaySnapshot, start types.TimeString, durationMinutes int) (*admission.Slot, error)
	CheckCapacity(ctx context.Context, slot *admission.Slot, excludeID *int64, stage string) error
	CheckOverlap(ctx context.Context, patientID int64, slot *admission.Slot, excludeID *int64) error
	LoadCommitted(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	CheckCapacityIn(appointments []*domain.Appointment, slot *admission.Slot, excludeID *int64, stage string) error
}

// SideEffects побочные эффекты после коммита
type SideEffects interface {
	AppointmentChanged(ctx context.Context, action string, actor domain.Actor, before, after *domain.Appointment, notification *domain.Notification)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик переходов записей
type Metrics interface {
	IncTransition(action string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
