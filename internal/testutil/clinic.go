// Package testutil собирает сервисный слой поверх хранилища в памяти для тестов usecase
package testutil

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/schedule"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/sideeffects"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/clock"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/refcode"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Now понедельник 2026-03-09 10:00 UTC; завтра (вторник) клиника открыта
var Now = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

// Tomorrow дата следующего дня после Now
var Tomorrow = domain.DateOnly(Now.AddDate(0, 0, 1))

// Clinic собранные зависимости usecase
type Clinic struct {
	Store      *memory.Store
	Clock      clock.Fixed
	Resolver   *schedule.Resolver
	Admission  *admission.Service
	Dispatcher *sideeffects.Dispatcher
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// NewClinic демонстрационная клиника с вместимостью по умолчанию capacity
func NewClinic(capacity int) *Clinic {
	store := memory.NewStore()
	memory.Seed(store)
	store.SetNow(func() time.Time { return Now })

	clk := clock.Fixed{At: Now}
	log := logger.Nop()
	var m *metrics.Metrics

	resolver := schedule.NewResolver(store.Schedule(), capacity, log)

	return &Clinic{
		Store:      store,
		Clock:      clk,
		Resolver:   resolver,
		Admission:  admission.NewService(resolver, store.Appointments(), clk, domain.DefaultBookingWindowDays, m, log),
		Dispatcher: sideeffects.NewDispatcher(store.Notifier(), store.Audit(), clk, time.Second, m, log),
		Metrics:    m,
		Logger:     log,
	}
}

// Seeded параметры записи, создаваемой напрямую в хранилище
type Seeded struct {
	PatientID     int64
	Date          time.Time
	Slot          string
	Status        domain.AppointmentStatus
	Method        domain.PaymentMethod
	PaymentStatus domain.AppointmentPaymentStatus
}

// AddAppointment создает запись в хранилище в обход проверок допуска
func (c *Clinic) AddAppointment(s Seeded) *domain.Appointment {
	rng, err := types.ParseTimeRange(s.Slot)
	if err != nil {
		panic(err)
	}
	if s.Date.IsZero() {
		s.Date = Tomorrow
	}
	if s.Status == "" {
		s.Status = domain.StatusPending
	}
	if s.Method == "" {
		s.Method = domain.PaymentMethodCash
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = domain.InitialPaymentStatus(s.Method)
	}

	code, err := refcode.Generate()
	if err != nil {
		panic(err)
	}

	a, err := c.Store.Appointments().Create(context.Background(), &domain.Appointment{
		PatientID:     s.PatientID,
		ServiceID:     memory.SeedConsultationID,
		Date:          s.Date,
		TimeSlot:      rng,
		ReferenceCode: code,
		Status:        s.Status,
		PaymentMethod: s.Method,
		PaymentStatus: s.PaymentStatus,
	})
	if err != nil {
		panic(err)
	}
	return a
}

// AddPaidMaya создает запись, оплаченную через maya, и ее платеж
func (c *Clinic) AddPaidMaya(patientID int64, date time.Time, slot string, status domain.AppointmentStatus, amount float64) (*domain.Appointment, *domain.Payment) {
	a := c.AddAppointment(Seeded{
		PatientID:     patientID,
		Date:          date,
		Slot:          slot,
		Status:        status,
		Method:        domain.PaymentMethodMaya,
		PaymentStatus: domain.AppointmentPaid,
	})

	paidAt := Now
	p, err := c.Store.Payments().Create(context.Background(), &domain.Payment{
		AppointmentID: &a.ID,
		Method:        domain.PaymentMethodMaya,
		Status:        domain.PaymentPaid,
		AmountDue:     amount,
		AmountPaid:    amount,
		PaidAt:        &paidAt,
	})
	if err != nil {
		panic(err)
	}
	return a, p
}
