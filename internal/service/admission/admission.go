package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/clock"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Stages проверки вместимости (метка метрики capacity_denied_total)
const (
	StageBooking    = "booking"
	StageApproval   = "approval"
	StageReschedule = "reschedule"
)

// Slot проверенный диапазон времени на дату
type Slot struct {
	Date   time.Time
	Day    *domain.ClinicDaySnapshot
	Range  types.TimeRange
	Blocks int
}

// Service общие шаги допуска записи на слот
// Используется при бронировании, одобрении и переносе, чтобы проверки
// вместимости и пересечений везде выполнялись одинаково
type Service struct {
	resolver          ScheduleResolver
	appointments      AppointmentRepository
	clock             clock.Clock
	bookingWindowDays int
	metrics           Metrics
	logger            Logger
}

// NewService создает сервис допуска
func NewService(
	resolver ScheduleResolver,
	appointments AppointmentRepository,
	clk clock.Clock,
	bookingWindowDays int,
	metrics Metrics,
	logger Logger,
) *Service {
	if bookingWindowDays <= 0 {
		bookingWindowDays = domain.DefaultBookingWindowDays
	}
	return &Service{
		resolver:          resolver,
		appointments:      appointments,
		clock:             clk,
		bookingWindowDays: bookingWindowDays,
		metrics:           metrics,
		logger:            logger,
	}
}

// Today текущая дата клиники
func (s *Service) Today() time.Time {
	return domain.DateOnly(s.clock.Now())
}

// Now текущее время клиники
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// CheckWindow шаг 1: дата в окне бронирования
// Пациент: с завтрашнего дня по today+N; персонал: с сегодняшнего по today+N
func (s *Service) CheckWindow(date time.Time, staffAssisted bool) error {
	today := s.Today()
	date = domain.DateOnly(date)

	earliest := today.AddDate(0, 0, 1)
	if staffAssisted {
		earliest = today
	}
	latest := today.AddDate(0, 0, s.bookingWindowDays)

	if date.Before(earliest) || date.After(latest) {
		return domain.NewValidationError("date", fmt.Sprintf("date must be between %s and %s",
			earliest.Format(domain.DateFormat), latest.Format(domain.DateFormat)))
	}
	return nil
}

// ResolveSlot шаги 2-4: клиника открыта, начало на сетке, диапазон в часах работы
func (s *Service) ResolveSlot(ctx context.Context, date time.Time, start types.TimeString, durationMinutes int) (*Slot, error) {
	day, err := s.OpenStart(ctx, date, start)
	if err != nil {
		return nil, err
	}
	return s.FitSlot(day, start, durationMinutes)
}

// OpenStart шаги 2-3: клиника открыта, начало на сетке и еще не прошло
func (s *Service) OpenStart(ctx context.Context, date time.Time, start types.TimeString) (*domain.ClinicDaySnapshot, error) {
	date = domain.DateOnly(date)

	day, err := s.resolver.ResolveDay(ctx, date)
	if err != nil {
		s.logger.Error("OpenStart: failed to resolve %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: resolve day: %w", ErrInternal, err)
	}
	if !day.IsOpen {
		return nil, domain.NewValidationError("date", "clinic closed")
	}

	if err := start.Validate(); err != nil {
		return nil, domain.NewValidationError("start_time", "invalid time format")
	}
	if !domain.IsAligned(start, *day.OpenTime) {
		return nil, domain.NewValidationError("start_time", "start time is not aligned to the 30-minute grid")
	}

	// Сегодня те же начала, что отдает список слотов
	now := s.clock.Now()
	if domain.SameDate(date, now) && !start.IsAfter(types.NewTimeString(now)) {
		return nil, domain.NewValidationError("start_time", "start time has already passed")
	}

	return day, nil
}

// FitSlot шаг 4: диапазон длительности помещается в часы работы дня
func (s *Service) FitSlot(day *domain.ClinicDaySnapshot, start types.TimeString, durationMinutes int) (*Slot, error) {
	duration := domain.RoundUpToBlocks(durationMinutes)
	rng, err := types.NewTimeRange(start, duration)
	if err != nil || !day.Contains(rng) {
		return nil, domain.NewValidationError("start_time", fmt.Sprintf("appointment must fit within opening hours %s-%s",
			*day.OpenTime, *day.CloseTime))
	}

	return &Slot{
		Date:   domain.DateOnly(day.Date),
		Day:    day,
		Range:  rng,
		Blocks: duration / domain.BlockMinutes,
	}, nil
}

// SlotOf слот существующей записи на ее текущую дату
// Выравнивание не проверяется: блоки вне сетки отклонит CanFit
func (s *Service) SlotOf(ctx context.Context, a *domain.Appointment) (*Slot, error) {
	date := domain.DateOnly(a.Date)

	day, err := s.resolver.ResolveDay(ctx, date)
	if err != nil {
		s.logger.Error("SlotOf: failed to resolve %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: resolve day: %w", ErrInternal, err)
	}

	return &Slot{
		Date:   date,
		Day:    day,
		Range:  a.TimeSlot,
		Blocks: domain.BlocksIn(a.TimeSlot.DurationMinutes()),
	}, nil
}

// LoadCommitted записи даты, занимающие вместимость
func (s *Service) LoadCommitted(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	appointments, err := s.appointments.GetByDate(ctx, domain.AppointmentFilter{Date: domain.DateOnly(date)})
	if err != nil {
		s.logger.Error("LoadCommitted: failed to get appointments for %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: get appointments: %w", ErrInternal, err)
	}
	return appointments, nil
}

// CheckCapacity шаг 5: все блоки диапазона свободны
func (s *Service) CheckCapacity(ctx context.Context, slot *Slot, excludeID *int64, stage string) error {
	appointments, err := s.LoadCommitted(ctx, slot.Date)
	if err != nil {
		return err
	}
	return s.CheckCapacityIn(appointments, slot, excludeID, stage)
}

// CheckCapacityIn шаг 5 по уже загруженным записям
func (s *Service) CheckCapacityIn(appointments []*domain.Appointment, slot *Slot, excludeID *int64, stage string) error {
	ledger := capacity.NewLedger(slot.Day, appointments)
	if err := ledger.CanFit(slot.Range.Start, slot.Blocks, excludeID); err != nil {
		s.metrics.IncCapacityDenied(stage)
		s.logger.Warn("CheckCapacity: %s denied on %s %s: %v",
			stage, slot.Date.Format(domain.DateFormat), slot.Range, err)
		return err
	}
	return nil
}

// CheckOverlap шаг 9: у пациента нет пересекающейся записи на эту дату
func (s *Service) CheckOverlap(ctx context.Context, patientID int64, slot *Slot, excludeID *int64) error {
	appointments, err := s.LoadCommitted(ctx, slot.Date)
	if err != nil {
		return err
	}
	return CheckOverlapIn(appointments, patientID, slot, excludeID)
}

// CheckOverlapIn шаг 9 по уже загруженным записям
func CheckOverlapIn(appointments []*domain.Appointment, patientID int64, slot *Slot, excludeID *int64) error {
	if existing, found := capacity.FindOverlap(appointments, patientID, slot.Date, slot.Range, excludeID); found {
		return domain.NewValidationError("time_slot",
			fmt.Sprintf("patient already has an appointment at %s", existing.TimeSlot))
	}
	return nil
}

// CheckPatientStatus шаг 7: пациент не заблокирован
func CheckPatientStatus(status *domain.PatientStatus) error {
	if status != nil && status.Blocked {
		return domain.NewAuthorizationError(status.BlockType, status.BlockReason)
	}
	return nil
}
