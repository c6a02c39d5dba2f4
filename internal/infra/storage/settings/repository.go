package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
)

// Repository репозиторий настроек возвратов (одна строка с id = 1)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRefundSetting возвращает настройки возвратов
// Если строка отсутствует - значения по умолчанию
func (r *Repository) GetRefundSetting(ctx context.Context) (domain.RefundSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"cancellation_deadline_hours",
		"monthly_cancellation_limit",
		"create_zero_refund_request",
		"reminder_days",
	).
		From("refund_settings").
		Where(squirrel.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return domain.RefundSetting{}, fmt.Errorf("%w: GetRefundSetting - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.RefundSetting
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.CancellationDeadlineHours,
		&s.MonthlyCancellationLimit,
		&s.CreateZeroRefundRequest,
		&s.ReminderDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultRefundSetting(), nil
	}
	if err != nil {
		return domain.RefundSetting{}, fmt.Errorf("%w: GetRefundSetting - scan settings: %w", ErrScanRow, err)
	}

	return s, nil
}
