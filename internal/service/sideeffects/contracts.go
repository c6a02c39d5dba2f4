package sideeffects

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Notifier клиент сервиса уведомлений
type Notifier interface {
	Send(ctx context.Context, n *domain.Notification) error
}

// AuditLog журнал аудита
type AuditLog interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// Metrics счетчик неудачных побочных эффектов
type Metrics interface {
	IncSideEffectFailure(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
