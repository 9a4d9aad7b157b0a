package model

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// rank orders statuses along the lifecycle. Both terminal statuses share
// the highest rank because neither can follow the other.
func (s TaskStatus) rank() int {
	switch s {
	case TaskStatusPending:
		return 0
	case TaskStatusProcessing:
		return 1
	case TaskStatusCompleted, TaskStatusFailed:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether moving from s to next is a legal forward
// step. Staying on the same non-terminal status is allowed (progress
// updates arrive with an unchanged status).
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	return next.rank() >= s.rank()
}

// Task tracks one backend ingestion job from submission to terminal
// outcome. TaskID is assigned by the backend and never changes; URL is the
// original user input, kept for display.
type Task struct {
	TaskID    string     `json:"task_id"`
	URL       string     `json:"url"`
	Status    TaskStatus `json:"status"`
	Message   string     `json:"message,omitempty"`
	Progress  int        `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Providers the backend can ingest from.
const (
	ProviderTikTok    = "tiktok"
	ProviderInstagram = "instagram"
)

func ValidProvider(p string) bool {
	return p == ProviderTikTok || p == ProviderInstagram
}

// TaskLogEntry is one row of the submission audit trail. Ref is a
// gateway-side ULID; TaskID is the backend identifier.
type TaskLogEntry struct {
	Ref         string     `json:"ref"`
	TaskID      string     `json:"task_id"`
	Provider    string     `json:"provider"`
	URL         string     `json:"url"`
	Status      TaskStatus `json:"status"`
	Message     string     `json:"message,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}
