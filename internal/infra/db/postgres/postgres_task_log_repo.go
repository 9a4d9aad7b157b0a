package postgres

import (
	"context"
	"errors"
	"time"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/repository"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"
)

// Ensure compile-time conformance
var _ repository.TaskLogRepository = (*taskLogRepo)(nil)

// taskLogRepo is the append-only submission audit trail. Rows are keyed by
// the backend task ID; ref is a gateway-side ULID so the trail sorts by
// submission time even when backend IDs are opaque.
type taskLogRepo struct {
	pool *pgxpool.Pool
}

func NewTaskLogRepo(pool *pgxpool.Pool) *taskLogRepo {
	return &taskLogRepo{pool: pool}
}

func (r *taskLogRepo) Save(ctx context.Context, entry *model.TaskLogEntry) error {
	if entry.Ref == "" {
		entry.Ref = ulid.Make().String()
	}
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}

	const q = `
INSERT INTO task_log (ref, task_id, provider, url, status, message, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err := r.pool.Exec(ctx, q,
		entry.Ref, entry.TaskID, entry.Provider, entry.URL, entry.Status, entry.Message, entry.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *taskLogRepo) MarkFinished(ctx context.Context, taskID string, status model.TaskStatus, message string) error {
	const q = `
UPDATE task_log
SET status = $2, message = $3, finished_at = $4
WHERE task_id = $1 AND finished_at IS NULL;`

	tag, err := r.pool.Exec(ctx, q, taskID, status, message, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskLogRepo) ListRecent(ctx context.Context, limit int) ([]*model.TaskLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
SELECT ref, task_id, provider, url, status, message, submitted_at, finished_at
FROM task_log
ORDER BY submitted_at DESC
LIMIT $1;`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.TaskLogEntry
	for rows.Next() {
		e := &model.TaskLogEntry{}
		if err := rows.Scan(&e.Ref, &e.TaskID, &e.Provider, &e.URL, &e.Status, &e.Message, &e.SubmittedAt, &e.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*model.TaskLogEntry{}
	}
	return out, nil
}
