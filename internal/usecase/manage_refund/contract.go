package manage_refund

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// RefundRepository интерфейс репозитория заявок на возврат
type RefundRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RefundRequest, error)
	Update(ctx context.Context, req *domain.RefundRequest) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// PatientDirectory справочник пациентов
type PatientDirectory interface {
	ResolveByUser(ctx context.Context, userID int64) (*domain.Patient, error)
}

// SideEffects побочные эффекты после коммита
type SideEffects interface {
	Audit(ctx context.Context, entry *domain.AuditEntry)
	Notify(ctx context.Context, n *domain.Notification)
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
