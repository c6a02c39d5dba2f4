package record_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	MarkPaid(ctx context.Context, id int64, amount float64, at time.Time) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
}

// SideEffects побочные эффекты после коммита
type SideEffects interface {
	AppointmentChanged(ctx context.Context, action string, actor domain.Actor, before, after *domain.Appointment, notification *domain.Notification)
	Audit(ctx context.Context, entry *domain.AuditEntry)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
