package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Repository репозиторий расписания клиники:
// недельное расписание, исключения в календаре и план вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOverride получает исключение в календаре на дату
func (r *Repository) GetOverride(ctx context.Context, date time.Time) (*domain.CalendarOverrideEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "is_open", "open_time", "close_time", "note").
		From("calendar_overrides").
		Where(squirrel.Eq{"date": domain.DateOnly(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %w", ErrBuildQuery, err)
	}

	var (
		entry           domain.CalendarOverrideEntry
		openRaw, closeR sql.NullString
		note            sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.Date, &entry.IsOpen, &openRaw, &closeR, &note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %w", ErrScanRow, err)
	}

	if entry.OpenTime, err = nullTime(openRaw); err != nil {
		return nil, err
	}
	if entry.CloseTime, err = nullTime(closeR); err != nil {
		return nil, err
	}
	if note.Valid {
		entry.Note = &note.String
	}

	return &entry, nil
}

// GetWeeklyDefault получает недельное расписание для дня недели (0 = воскресенье)
func (r *Repository) GetWeeklyDefault(ctx context.Context, weekday int) (*domain.WeeklyDefaultEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("weekly_defaults").
		Where(squirrel.Eq{"weekday": weekday}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyDefault - build select query: %w", ErrBuildQuery, err)
	}

	var (
		entry           domain.WeeklyDefaultEntry
		openRaw, closeR sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.Weekday, &entry.IsOpen, &openRaw, &closeR)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyDefault - scan weekly default: %w", ErrScanRow, err)
	}

	if entry.OpenTime, err = nullTime(openRaw); err != nil {
		return nil, err
	}
	if entry.CloseTime, err = nullTime(closeR); err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetCapacityPlan получает план вместимости на дату
func (r *Repository) GetCapacityPlan(ctx context.Context, date time.Time) (*domain.CapacityPlanEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "capacity").
		From("capacity_plans").
		Where(squirrel.Eq{"date": domain.DateOnly(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCapacityPlan - build select query: %w", ErrBuildQuery, err)
	}

	var entry domain.CapacityPlanEntry
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.Date, &entry.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCapacityPlan - scan capacity plan: %w", ErrScanRow, err)
	}

	return &entry, nil
}

// nullTime конвертирует TIME из БД (HH:MM:SS) в TimeString
func nullTime(raw sql.NullString) (*types.TimeString, error) {
	if !raw.Valid {
		return nil, nil
	}
	ts, err := types.NewTimeStringFromString(raw.String)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTime, raw.String, err)
	}
	return &ts, nil
}
