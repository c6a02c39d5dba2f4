package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
)

// Repository журнал аудита (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал
// Снимки before/after сохраняются как JSONB
func (r *Repository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	before, err := marshalSnapshot(entry.Before)
	if err != nil {
		return err
	}
	after, err := marshalSnapshot(entry.After)
	if err != nil {
		return err
	}

	insert := psqlbuilder.Insert("audit_entries").
		Columns("id", "entity", "entity_id", "action", "actor_id", "actor_role", "before", "after")
	values := []interface{}{entry.ID, entry.Entity, entry.EntityID, entry.Action, entry.ActorID, entry.ActorRole, before, after}
	if !entry.CreatedAt.IsZero() {
		insert = insert.Columns("created_at")
		values = append(values, entry.CreatedAt)
	}

	query, args, err := insert.Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// marshalSnapshot JSON снимка строкой (lib/pq передает []byte как bytea)
func marshalSnapshot(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return string(data), nil
}
