//go:build !integration

package usecase

import (
	"context"
	"fmt"
	"sync"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// mockJobAPI lets each test plug in just the behavior it needs.
type mockJobAPI struct {
	mu          sync.Mutex
	submitCalls int
	statusCalls int
	SubmitFunc  func(ctx context.Context, provider, rawURL, bearer string) (string, error)
	StatusFunc  func(ctx context.Context, taskID string) (adapter.JobStatus, error)
}

func (m *mockJobAPI) Submit(ctx context.Context, provider, rawURL, bearer string) (string, error) {
	m.mu.Lock()
	m.submitCalls++
	m.mu.Unlock()
	return m.SubmitFunc(ctx, provider, rawURL, bearer)
}

func (m *mockJobAPI) Status(ctx context.Context, taskID string) (adapter.JobStatus, error) {
	m.mu.Lock()
	m.statusCalls++
	m.mu.Unlock()
	return m.StatusFunc(ctx, taskID)
}

func (m *mockJobAPI) submits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls
}

type mockCatalog struct {
	calls    int
	ListFunc func(ctx context.Context, limit, offset int) ([]model.Sample, error)
}

func (m *mockCatalog) ListSamples(ctx context.Context, limit, offset int) ([]model.Sample, error) {
	m.calls++
	return m.ListFunc(ctx, limit, offset)
}

// mockCache is a trivial single-page listing cache.
type mockCache struct {
	pages       map[string][]model.Sample
	stores      int
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{pages: make(map[string][]model.Sample)}
}

func cacheKey(limit, offset int) string {
	return fmt.Sprintf("%d:%d", limit, offset)
}

func (m *mockCache) GetListing(ctx context.Context, limit, offset int) ([]model.Sample, bool) {
	s, ok := m.pages[cacheKey(limit, offset)]
	return s, ok
}

func (m *mockCache) StoreListing(ctx context.Context, limit, offset int, samples []model.Sample) error {
	m.stores++
	m.pages[cacheKey(limit, offset)] = samples
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	m.invalidated++
	m.pages = make(map[string][]model.Sample)
	return nil
}

type mockLimiter struct {
	calls int
	allow bool
	err   error
}

func (m *mockLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	m.calls++
	return m.allow, m.err
}

// mockAudit is an in-memory TaskLogRepository.
type mockAudit struct {
	mu      sync.Mutex
	entries []*model.TaskLogEntry
}

func (m *mockAudit) Save(ctx context.Context, entry *model.TaskLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TaskID == entry.TaskID {
			return domain.ErrAlreadyExists
		}
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAudit) MarkFinished(ctx context.Context, taskID string, status model.TaskStatus, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TaskID == taskID {
			e.Status = status
			e.Message = message
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockAudit) ListRecent(ctx context.Context, limit int) ([]*model.TaskLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]*model.TaskLogEntry, limit)
	copy(out, m.entries[:limit])
	return out, nil
}

func (m *mockAudit) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
