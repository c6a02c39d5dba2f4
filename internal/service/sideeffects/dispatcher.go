package sideeffects

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/clock"
)

const (
	kindNotify = "notify"
	kindAudit  = "audit"
)

// Dispatcher выполняет побочные эффекты после коммита
// Ошибки логируются и считаются в метриках, но не возвращаются вызывающему:
// основная операция уже зафиксирована и не откатывается
type Dispatcher struct {
	notifier Notifier
	audit    AuditLog
	clock    clock.Clock
	timeout  time.Duration
	metrics  Metrics
	logger   Logger
}

// NewDispatcher создает диспетчер; timeout ограничивает каждый вызов
func NewDispatcher(notifier Notifier, audit AuditLog, clk clock.Clock, timeout time.Duration, metrics Metrics, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		notifier: notifier,
		audit:    audit,
		clock:    clk,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
	}
}

// Notify отправляет уведомление
func (d *Dispatcher) Notify(ctx context.Context, n *domain.Notification) {
	if d.notifier == nil || n == nil {
		return
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.notifier.Send(callCtx, n); err != nil {
		d.metrics.IncSideEffectFailure(kindNotify)
		d.logger.Error("Notify: event=%s audience=%s failed: %v", n.Event, n.Audience, err)
	}
}

// Audit добавляет запись в журнал аудита
func (d *Dispatcher) Audit(ctx context.Context, entry *domain.AuditEntry) {
	if d.audit == nil || entry == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = d.clock.Now()
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.audit.Append(callCtx, entry); err != nil {
		d.metrics.IncSideEffectFailure(kindAudit)
		d.logger.Error("Audit: %s id=%d action=%s failed: %v", entry.Entity, entry.EntityID, entry.Action, err)
	}
}

// AppointmentChanged аудит и уведомление об изменении записи
func (d *Dispatcher) AppointmentChanged(
	ctx context.Context,
	action string,
	actor domain.Actor,
	before, after *domain.Appointment,
	notification *domain.Notification,
) {
	id := int64(0)
	if after != nil {
		id = after.ID
	} else if before != nil {
		id = before.ID
	}

	entry := &domain.AuditEntry{
		Entity:    domain.EntityAppointment,
		EntityID:  id,
		Action:    action,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
	}
	if before != nil {
		entry.Before = before
	}
	if after != nil {
		entry.After = after
	}

	d.Audit(ctx, entry)
	d.Notify(ctx, notification)
}
