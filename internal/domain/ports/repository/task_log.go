package repository

import (
	"context"

	"sample-media-gateway/internal/domain/model"
)

// TaskLogRepository is the submission audit trail. Save records a new
// submission; MarkFinished stamps the terminal outcome. Both are
// best-effort from the caller's point of view: audit failures never block
// the tracking flow.
type TaskLogRepository interface {
	Save(ctx context.Context, entry *model.TaskLogEntry) error
	MarkFinished(ctx context.Context, taskID string, status model.TaskStatus, message string) error
	ListRecent(ctx context.Context, limit int) ([]*model.TaskLogEntry, error)
}
