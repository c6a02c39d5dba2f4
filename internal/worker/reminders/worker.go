// Package reminders периодически напоминает пациентам об одобренных записях
package reminders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/clock"
)

// Worker рассылка напоминаний на ближайшие daysAhead дней
type Worker struct {
	repo      AppointmentRepository
	effects   SideEffects
	clock     clock.Clock
	daysAhead int
	metrics   Metrics
	logger    Logger
}

// NewWorker создает воркер напоминаний
func NewWorker(
	repo AppointmentRepository,
	effects SideEffects,
	clk clock.Clock,
	daysAhead int,
	metrics Metrics,
	logger Logger,
) *Worker {
	if daysAhead < 1 {
		daysAhead = 1
	}
	return &Worker{
		repo:      repo,
		effects:   effects,
		clock:     clk,
		daysAhead: daysAhead,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start регистрирует RunOnce по cron-выражению и запускает планировщик
// Вызывающий останавливает планировщик через Stop()
func (w *Worker) Start(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(w.clock.Now().Location()))
	if _, err := c.AddFunc(schedule, func() {
		if _, err := w.RunOnce(context.Background()); err != nil {
			w.logger.Error("Reminders: run failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("reminders: invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	w.logger.Info("Reminders: scheduled %q, %d day(s) ahead", schedule, w.daysAhead)
	return c, nil
}

// RunOnce отправляет напоминания по одобренным записям с завтрашнего дня
// на daysAhead дней вперед и помечает их reminded_at. Возвращает число напоминаний
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	now := w.clock.Now()
	today := domain.DateOnly(now)
	sent := 0

	for offset := 1; offset <= w.daysAhead; offset++ {
		date := today.AddDate(0, 0, offset)

		due, err := w.repo.ListDueReminders(ctx, date)
		if err != nil {
			return sent, fmt.Errorf("reminders: list due for %s: %w", date.Format(domain.DateFormat), err)
		}

		for _, a := range due {
			if err := w.repo.MarkReminded(ctx, a.ID, now); err != nil {
				w.logger.Error("Reminders: failed to mark appointment id=%d: %v", a.ID, err)
				continue
			}

			after := *a
			after.RemindedAt = &now
			w.effects.AppointmentChanged(ctx, domain.ActionRemind, domain.SystemActor, a, &after, reminderFor(a))
			w.metrics.IncReminderSent()
			sent++
		}
	}

	w.logger.Info("Reminders: sent %d reminder(s)", sent)
	return sent, nil
}

func reminderFor(a *domain.Appointment) *domain.Notification {
	patientID := a.PatientID
	return &domain.Notification{
		Audience:  domain.AudiencePatient,
		PatientID: &patientID,
		Event:     "appointment.reminder",
		Subject:   "Appointment reminder",
		Body: fmt.Sprintf("Reminder: your appointment is on %s at %s (code %s)",
			a.Date.Format(domain.DateFormat), a.TimeSlot.String(), a.ReferenceCode),
		Data: map[string]string{
			"appointmentId": strconv.FormatInt(a.ID, 10),
			"referenceCode": a.ReferenceCode,
		},
	}
}
