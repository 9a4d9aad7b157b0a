package adapter

import (
	"context"

	"sample-media-gateway/internal/domain/model"
)

// JobStatus is the backend's answer to one status lookup. Progress is -1
// when the backend omitted it.
type JobStatus struct {
	Status   model.TaskStatus `json:"status"`
	Message  string           `json:"message,omitempty"`
	Progress int              `json:"progress"`
	Error    string           `json:"error,omitempty"`
}

// JobAPIAdapter is the submission/status surface of the external Backend
// Job API.
type JobAPIAdapter interface {
	// Submit sends a social-media URL for ingestion and returns the
	// backend-assigned task ID. The bearer credential is forwarded as-is.
	Submit(ctx context.Context, provider, rawURL, bearer string) (string, error)
	// Status looks up the current state of a task.
	Status(ctx context.Context, taskID string) (JobStatus, error)
}

// CatalogAdapter lists the browsable sample catalog.
type CatalogAdapter interface {
	ListSamples(ctx context.Context, limit, offset int) ([]model.Sample, error)
}
