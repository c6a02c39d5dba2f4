package cancel_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
	CountCancellationsSince(ctx context.Context, patientID int64, since time.Time) (int, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetPaidByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error)
	CancelOutstanding(ctx context.Context, appointmentID int64, at time.Time) (int64, error)
}

// RefundRepository интерфейс репозитория заявок на возврат
type RefundRepository interface {
	Create(ctx context.Context, req *domain.RefundRequest) (*domain.RefundRequest, error)
}

// SettingsRepository настройки возвратов
type SettingsRepository interface {
	GetRefundSetting(ctx context.Context) (domain.RefundSetting, error)
}

// PatientDirectory справочник пациентов
type PatientDirectory interface {
	ResolveByUser(ctx context.Context, userID int64) (*domain.Patient, error)
}

// RefundCalculator расчет возврата
type RefundCalculator interface {
	Quote(a *domain.Appointment, payment *domain.Payment, settings domain.RefundSetting, cancelledAt time.Time) domain.RefundQuote
	NewRequest(a *domain.Appointment, payment *domain.Payment, quote domain.RefundQuote, settings domain.RefundSetting, requestedAt time.Time) *domain.RefundRequest
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

// Metrics счетчики переходов и заявок на возврат
type Metrics interface {
	IncTransition(action string)
	IncRefundRequest()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
