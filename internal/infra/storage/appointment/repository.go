package appointment

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

// dateLockNamespace первый ключ pg_advisory_xact_lock для блокировок дат записи
const dateLockNamespace = 7301

var columns = []string{
	"id",
	"patient_id",
	"service_id",
	"patient_hmo_id",
	"date",
	"time_slot",
	"reference_code",
	"status",
	"payment_method",
	"payment_status",
	"teeth_count",
	"notes",
	"reminded_at",
	"canceled_at",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если код записи уже занят, возвращает ErrDuplicateReferenceCode, не прерывая транзакцию
// (ON CONFLICT DO NOTHING), чтобы вызывающий мог сгенерировать новый код и повторить
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"patient_id",
			"service_id",
			"patient_hmo_id",
			"date",
			"time_slot",
			"reference_code",
			"status",
			"payment_method",
			"payment_status",
			"teeth_count",
			"notes",
		).
		Values(
			a.PatientID,
			a.ServiceID,
			a.PatientHMOID,
			domain.DateOnly(a.Date),
			a.TimeSlot,
			a.ReferenceCode,
			a.Status,
			a.PaymentMethod,
			a.PaymentStatus,
			a.TeethCount,
			a.Notes,
		).
		Suffix("ON CONFLICT (reference_code) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDuplicateReferenceCode
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// GetByReferenceCode получает запись по коду (код хранится в верхнем регистре)
func (r *Repository) GetByReferenceCode(ctx context.Context, code string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"reference_code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReferenceCode - build select query: %w", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReferenceCode - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// GetByDate получает записи на дату с фильтрацией:
// - по пациенту (PatientID) - опционально
// - только занимающие вместимость статусы, если IncludeInactive = false
//
// Сортировка по времени начала
func (r *Repository) GetByDate(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"date": domain.DateOnly(filter.Date)}).
		OrderBy("time_slot ASC", "id ASC")

	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}

	if !filter.IncludeInactive {
		statuses := make([]string, len(domain.CommittedStatuses))
		for i, s := range domain.CommittedStatuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// LockDate берет транзакционную advisory-блокировку даты
// Все операции, меняющие занятость даты, сериализуются на ней до конца транзакции
func (r *Repository) LockDate(ctx context.Context, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	d := domain.DateOnly(date)
	key := d.Year()*10000 + int(d.Month())*100 + d.Day()

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1, $2)", dateLockNamespace, key); err != nil {
		return fmt.Errorf("%w: LockDate - %s: %w", ErrExecQuery, d.Format(domain.DateFormat), err)
	}
	return nil
}

// Update сохраняет изменяемые поля записи
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("date", domain.DateOnly(a.Date)).
		Set("time_slot", a.TimeSlot).
		Set("status", a.Status).
		Set("payment_status", a.PaymentStatus).
		Set("reminded_at", a.RemindedAt).
		Set("canceled_at", a.CanceledAt).
		Set("cancellation_reason", a.CancelReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// CountCancellationsSince считает отмены пациента начиная с момента since
func (r *Repository) CountCancellationsSince(ctx context.Context, patientID int64, since time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"patient_id": patientID, "status": domain.StatusCancelled}).
		Where(squirrel.GtOrEq{"canceled_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountCancellationsSince - build select query: %w", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountCancellationsSince - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// ListDueReminders одобренные записи на дату, по которым еще не отправлено напоминание
func (r *Repository) ListDueReminders(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{
			"date":        domain.DateOnly(date),
			"status":      domain.StatusApproved,
			"reminded_at": nil,
		}).
		OrderBy("time_slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// MarkReminded отмечает отправку напоминания
// Повторная отметка не перезаписывает исходное время
func (r *Repository) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("reminded_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "reminded_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminded - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkReminded - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		hmoID                sql.NullInt64
		teeth                sql.NullInt64
		notes, reason        sql.NullString
		remindedAt, canceled sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ServiceID,
		&hmoID,
		&a.Date,
		&a.TimeSlot,
		&a.ReferenceCode,
		&a.Status,
		&a.PaymentMethod,
		&a.PaymentStatus,
		&teeth,
		&notes,
		&remindedAt,
		&canceled,
		&reason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if hmoID.Valid {
		a.PatientHMOID = &hmoID.Int64
	}
	if teeth.Valid {
		n := int(teeth.Int64)
		a.TeethCount = &n
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if reason.Valid {
		a.CancelReason = &reason.String
	}
	if remindedAt.Valid {
		a.RemindedAt = &remindedAt.Time
	}
	if canceled.Valid {
		a.CanceledAt = &canceled.Time
	}
	a.Date = domain.DateOnly(a.Date)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}
