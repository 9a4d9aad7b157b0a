package tracker

import (
	"sort"
	"sync"
	"time"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
)

const defaultQueuedMessage = "queued for processing"

// Patch carries the fields of one status lookup response. Zero values mean
// "leave unchanged": an empty Status keeps the current status, an empty
// Message keeps the current message, a negative Progress keeps the current
// progress.
type Patch struct {
	Status   model.TaskStatus
	Message  string
	Progress int
}

type entry struct {
	task model.Task
	seq  uint64 // latest lookup sequence issued for this task
}

// Store holds the gateway-local view of all in-flight submissions. It is
// the only shared mutable state of the tracker; all access goes through the
// mutex. The store never issues network calls.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*entry
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]*entry)}
}

// Add inserts a fresh pending record. Duplicate task IDs are rejected and
// the existing record wins.
func (s *Store) Add(taskID, url string) error {
	if taskID == "" {
		return domain.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; ok {
		return domain.ErrAlreadyExists
	}
	now := time.Now()
	s.tasks[taskID] = &entry{task: model.Task{
		TaskID:    taskID,
		URL:       url,
		Status:    model.TaskStatusPending,
		Message:   defaultQueuedMessage,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	return nil
}

// Update merges a patch into an existing record. It is a no-op when the
// task is absent (a removal may have raced an in-flight lookup), when the
// record is already terminal, or when the patch would move the status
// backward.
func (s *Store) Update(taskID string, p Patch) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(taskID, p)
}

func (s *Store) applyLocked(taskID string, p Patch) (model.Task, bool) {
	e, ok := s.tasks[taskID]
	if !ok {
		return model.Task{}, false
	}
	t := &e.task
	if t.Status.Terminal() {
		return *t, false
	}
	if p.Status != "" && p.Status != t.Status && !t.Status.CanTransition(p.Status) {
		return *t, false
	}
	if p.Status != "" {
		t.Status = p.Status
	}
	if p.Message != "" {
		t.Message = p.Message
	}
	if p.Progress >= 0 {
		if p.Progress > 100 {
			p.Progress = 100
		}
		t.Progress = p.Progress
	}
	t.UpdatedAt = time.Now()
	return *t, true
}

// BeginLookup allocates the next lookup sequence number for a task. The
// matching ApplyResult is honored only while this sequence is still the
// latest, which keeps a slow response from an earlier tick from
// overwriting fresher state.
func (s *Store) BeginLookup(taskID string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tasks[taskID]
	if !ok {
		return 0, false
	}
	e.seq++
	return e.seq, true
}

// ApplyResult merges a lookup response taken under sequence seq. Stale
// responses are discarded. finished is true exactly once per task: on the
// call that moved it into a terminal status.
func (s *Store) ApplyResult(taskID string, seq uint64, p Patch) (task model.Task, applied, finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tasks[taskID]
	if !ok || seq != e.seq {
		return model.Task{}, false, false
	}
	wasTerminal := e.task.Status.Terminal()
	task, applied = s.applyLocked(taskID, p)
	finished = applied && !wasTerminal && task.Status.Terminal()
	return task, applied, finished
}

// Remove deletes a record; removing an absent task is a no-op.
func (s *Store) Remove(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
}

func (s *Store) Get(taskID string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tasks[taskID]
	if !ok {
		return model.Task{}, false
	}
	return e.task, true
}

// List returns all tracked tasks ordered by submission time.
func (s *Store) List() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, e := range s.tasks {
		out = append(out, e.task)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Active returns the tasks still worth polling.
func (s *Store) Active() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, e := range s.tasks {
		if !e.task.Status.Terminal() {
			out = append(out, e.task)
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
