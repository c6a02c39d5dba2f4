package approve_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	LockDate(ctx context.Context, date time.Time) error
	Update(ctx context.Context, appointment *domain.Appointment) error
}

// Admission повторная проверка вместимости
type Admission interface {
	SlotOf(ctx context.Context, appointment *domain.Appointment) (*admission.Slot, error)
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
