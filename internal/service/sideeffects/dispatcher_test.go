package sideeffects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/clock"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Send(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockAudit struct{ mock.Mock }

func (m *mockAudit) Append(ctx context.Context, e *domain.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

type countingMetrics struct{ failures map[string]int }

func (c *countingMetrics) IncSideEffectFailure(kind string) {
	if c.failures == nil {
		c.failures = map[string]int{}
	}
	c.failures[kind]++
}

func TestDispatcher_FailuresAreRecordedNotReturned(t *testing.T) {
	notifier, audit, m := &mockNotifier{}, &mockAudit{}, &countingMetrics{}
	notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	audit.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	d := NewDispatcher(notifier, audit, clock.Fixed{At: now}, time.Second, m, logger.Nop())

	after := &domain.Appointment{ID: 9, Status: domain.StatusApproved}
	d.AppointmentChanged(context.Background(), domain.ActionApprove, domain.Actor{UserID: 3, Role: domain.RoleStaff},
		&domain.Appointment{ID: 9, Status: domain.StatusPending}, after,
		&domain.Notification{Audience: domain.AudiencePatient, Event: "appointment.approved"})

	assert.Equal(t, 1, m.failures[kindNotify])
	assert.Equal(t, 1, m.failures[kindAudit])

	audit.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.EntityID == 9 && e.Action == domain.ActionApprove && e.CreatedAt.Equal(now) && e.ActorRole == domain.RoleStaff
	}))
}

func TestDispatcher_SurvivesCancelledParentContext(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Send", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).Return(nil)

	d := NewDispatcher(notifier, nil, clock.Fixed{}, time.Second, &countingMetrics{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Notify(ctx, &domain.Notification{Event: "x"})

	notifier.AssertNumberOfCalls(t, "Send", 1)
}
