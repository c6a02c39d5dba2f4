package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// AppointmentRepository записи, ожидающие напоминания
type AppointmentRepository interface {
	ListDueReminders(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	MarkReminded(ctx context.Context, id int64, at time.Time) error
}

// SideEffects уведомление и аудит после фиксации изменения (best-effort)
type SideEffects interface {
	AppointmentChanged(ctx context.Context, action string, actor domain.Actor, before, after *domain.Appointment, notification *domain.Notification)
}

// Metrics счетчик отправленных напоминаний
type Metrics interface {
	IncReminderSent()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
