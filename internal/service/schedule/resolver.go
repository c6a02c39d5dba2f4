package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Resolver определяет состояние клиники (открыта/закрыта, часы, вместимость) на дату
type Resolver struct {
	repo            ScheduleRepository
	defaultCapacity int
	logger          Logger
}

// NewResolver создает резолвер расписания
// defaultCapacity применяется к датам без записи в плане вместимости
func NewResolver(repo ScheduleRepository, defaultCapacity int, logger Logger) *Resolver {
	if defaultCapacity < 0 {
		defaultCapacity = 0
	}
	return &Resolver{
		repo:            repo,
		defaultCapacity: defaultCapacity,
		logger:          logger,
	}
}

// ResolveDay возвращает снимок дня
// Приоритет часов работы:
// 1. Исключение в календаре на конкретную дату (полностью определяет is_open и часы)
// 2. Недельное расписание для дня недели
// Отсутствие записи для дня недели означает "закрыто", а не ошибку.
// Вместимость берется из плана на дату, иначе - значение по умолчанию,
// независимо от того, откуда взяты часы.
func (r *Resolver) ResolveDay(ctx context.Context, date time.Time) (*domain.ClinicDaySnapshot, error) {
	date = domain.DateOnly(date)

	isOpen, openTime, closeTime, err := r.resolveHours(ctx, date)
	if err != nil {
		return nil, err
	}

	if !isOpen || openTime == nil || closeTime == nil || !closeTime.IsAfter(*openTime) {
		return domain.ClosedDay(date), nil
	}

	capacity, err := r.resolveCapacity(ctx, date)
	if err != nil {
		return nil, err
	}

	return &domain.ClinicDaySnapshot{
		Date:              date,
		IsOpen:            true,
		OpenTime:          openTime,
		CloseTime:         closeTime,
		EffectiveCapacity: capacity,
	}, nil
}

func (r *Resolver) resolveHours(ctx context.Context, date time.Time) (bool, *types.TimeString, *types.TimeString, error) {
	override, err := r.repo.GetOverride(ctx, date)
	if err == nil {
		return override.IsOpen, override.OpenTime, override.CloseTime, nil
	}
	if !errors.Is(err, scheduleRepo.ErrNotFound) {
		r.logger.Error("ResolveDay: failed to get override for %s: %v", date.Format(domain.DateFormat), err)
		return false, nil, nil, fmt.Errorf("%w: get override: %w", ErrInternal, err)
	}

	weekly, err := r.repo.GetWeeklyDefault(ctx, int(date.Weekday()))
	if err == nil {
		return weekly.IsOpen, weekly.OpenTime, weekly.CloseTime, nil
	}
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		r.logger.Warn("ResolveDay: no weekly default for weekday=%d, treating %s as closed",
			date.Weekday(), date.Format(domain.DateFormat))
		return false, nil, nil, nil
	}

	r.logger.Error("ResolveDay: failed to get weekly default for weekday=%d: %v", date.Weekday(), err)
	return false, nil, nil, fmt.Errorf("%w: get weekly default: %w", ErrInternal, err)
}

func (r *Resolver) resolveCapacity(ctx context.Context, date time.Time) (int, error) {
	plan, err := r.repo.GetCapacityPlan(ctx, date)
	if err == nil {
		if plan.Capacity < 0 {
			return 0, nil
		}
		return plan.Capacity, nil
	}
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return r.defaultCapacity, nil
	}

	r.logger.Error("ResolveDay: failed to get capacity plan for %s: %v", date.Format(domain.DateFormat), err)
	return 0, fmt.Errorf("%w: get capacity plan: %w", ErrInternal, err)
}
