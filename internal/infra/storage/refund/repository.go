package refund

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

var columns = []string{
	"id",
	"patient_id",
	"appointment_id",
	"payment_id",
	"original_amount",
	"cancellation_fee",
	"refund_amount",
	"status",
	"admin_note",
	"requested_at",
	"processed_at",
	"deadline_at",
	"patient_confirmed_at",
}

// Repository репозиторий заявок на возврат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок на возврат
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку на возврат
func (r *Repository) Create(ctx context.Context, req *domain.RefundRequest) (*domain.RefundRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("refund_requests").
		Columns(
			"patient_id",
			"appointment_id",
			"payment_id",
			"original_amount",
			"cancellation_fee",
			"refund_amount",
			"status",
			"admin_note",
			"requested_at",
			"deadline_at",
		).
		Values(
			req.PatientID,
			req.AppointmentID,
			req.PaymentID,
			req.OriginalAmount,
			req.CancellationFee,
			req.RefundAmount,
			req.Status,
			req.AdminNote,
			req.RequestedAt,
			req.DeadlineAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&req.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return req, nil
}

// GetByID получает заявку по ID (FOR UPDATE внутри транзакции)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RefundRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("refund_requests").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var (
		req                                domain.RefundRequest
		note                               sql.NullString
		processedAt, deadlineAt, confirmed sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&req.ID,
		&req.PatientID,
		&req.AppointmentID,
		&req.PaymentID,
		&req.OriginalAmount,
		&req.CancellationFee,
		&req.RefundAmount,
		&req.Status,
		&note,
		&req.RequestedAt,
		&processedAt,
		&deadlineAt,
		&confirmed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRefundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan refund request: %w", ErrScanRow, err)
	}

	if note.Valid {
		req.AdminNote = &note.String
	}
	if processedAt.Valid {
		req.ProcessedAt = &processedAt.Time
	}
	if deadlineAt.Valid {
		req.DeadlineAt = &deadlineAt.Time
	}
	if confirmed.Valid {
		req.PatientConfirmedAt = &confirmed.Time
	}

	return &req, nil
}

// Update сохраняет изменяемые поля заявки
func (r *Repository) Update(ctx context.Context, req *domain.RefundRequest) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("refund_requests").
		Set("status", req.Status).
		Set("admin_note", req.AdminNote).
		Set("processed_at", req.ProcessedAt).
		Set("patient_confirmed_at", req.PatientConfirmedAt).
		Where(squirrel.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrRefundNotFound
	}

	return nil
}
