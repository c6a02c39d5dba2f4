package payment

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
)

var columns = []string{
	"id",
	"appointment_id",
	"visit_id",
	"method",
	"status",
	"amount_due",
	"amount_paid",
	"paid_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платеж
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("appointment_id", "visit_id", "method", "status", "amount_due", "amount_paid").
		Values(p.AppointmentID, p.VisitID, p.Method, p.Status, p.AmountDue, p.AmountPaid).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// GetByID получает платеж по ID (FOR UPDATE внутри транзакции)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("payments").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan payment: %w", ErrScanRow, err)
	}

	return p, nil
}

// GetPaidByAppointment получает последний оплаченный платеж записи
func (r *Repository) GetPaidByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("payments").
		Where(squirrel.Eq{"appointment_id": appointmentID, "status": domain.PaymentPaid}).
		OrderBy("paid_at DESC NULLS LAST", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPaidByAppointment - build select query: %w", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPaidByAppointment - scan payment: %w", ErrScanRow, err)
	}

	return p, nil
}

// ListByAppointment все платежи записи в порядке создания
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("payments").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %w", ErrScanRow, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}

// CancelOutstanding отменяет неоплаченные платежи записи, возвращает их количество
func (r *Repository) CancelOutstanding(ctx context.Context, appointmentID int64, at time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.OutstandingPaymentStatuses))
	for i, s := range domain.OutstandingPaymentStatuses {
		statuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentCancelled).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": appointmentID, "status": statuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelOutstanding - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelOutstanding - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelOutstanding - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// MarkPaid фиксирует поступление оплаты
func (r *Repository) MarkPaid(ctx context.Context, id int64, amount float64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentPaid).
		Set("amount_paid", amount).
		Set("paid_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkPaid", query, args)
}

// UpdateStatus меняет статус платежа
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		p                      domain.Payment
		appointmentID, visitID sql.NullInt64
		paidAt, cancelledAt    sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&appointmentID,
		&visitID,
		&p.Method,
		&p.Status,
		&p.AmountDue,
		&p.AmountPaid,
		&paidAt,
		&cancelledAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appointmentID.Valid {
		p.AppointmentID = &appointmentID.Int64
	}
	if visitID.Valid {
		p.VisitID = &visitID.Int64
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	if cancelledAt.Valid {
		p.CancelledAt = &cancelledAt.Time
	}

	return &p, nil
}
