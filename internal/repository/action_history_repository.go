package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

// ActionHistoryRepository stores audit entries for performed actions.
type ActionHistoryRepository interface {
	Create(ctx context.Context, record *domain.ActionRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.ActionRecord, error)
}

type actionHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewActionHistoryRepository builds repository.
func NewActionHistoryRepository(pool *pgxpool.Pool) ActionHistoryRepository {
	return &actionHistoryRepository{pool: pool}
}

func (r *actionHistoryRepository) Create(ctx context.Context, record *domain.ActionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Detail == nil {
		record.Detail = map[string]any{}
	}
	const query = `
        INSERT INTO action_history (id, session_id, ticket_key, action, success, detail)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.SessionID,
		record.TicketKey,
		record.Action,
		record.Success,
		record.Detail,
	).Scan(&record.CreatedAt)
}

func (r *actionHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.ActionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, session_id, ticket_key, action, success, detail, created_at
        FROM action_history ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActionRecord
	for rows.Next() {
		var record domain.ActionRecord
		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.TicketKey,
			&record.Action,
			&record.Success,
			&record.Detail,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
