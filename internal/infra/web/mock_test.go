//go:build !integration

package web

import (
	"context"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"
	"sample-media-gateway/internal/usecase"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

var (
	_ usecase.TrackUseCase  = (*mockTrackUC)(nil)
	_ usecase.SampleUseCase = (*mockSampleUC)(nil)
	_ usecase.PlanUseCase   = (*mockPlanUC)(nil)
)

type mockTrackUC struct {
	SubmitFunc  func(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error)
	StatusFunc  func(ctx context.Context, taskID string) (adapter.JobStatus, error)
	TasksFunc   func(ctx context.Context) []model.Task
	HistoryFunc func(ctx context.Context, limit int) ([]*model.TaskLogEntry, error)
}

func (m *mockTrackUC) Submit(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error) {
	return m.SubmitFunc(ctx, provider, rawURL, bearer, subject)
}

func (m *mockTrackUC) Status(ctx context.Context, taskID string) (adapter.JobStatus, error) {
	return m.StatusFunc(ctx, taskID)
}

func (m *mockTrackUC) Tasks(ctx context.Context) []model.Task {
	if m.TasksFunc == nil {
		return nil
	}
	return m.TasksFunc(ctx)
}

func (m *mockTrackUC) History(ctx context.Context, limit int) ([]*model.TaskLogEntry, error) {
	if m.HistoryFunc == nil {
		return []*model.TaskLogEntry{}, nil
	}
	return m.HistoryFunc(ctx, limit)
}

type mockSampleUC struct {
	ListFunc func(ctx context.Context, limit, offset int) ([]model.Sample, error)
}

func (m *mockSampleUC) List(ctx context.Context, limit, offset int) ([]model.Sample, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *mockSampleUC) InvalidateListing(ctx context.Context) error { return nil }

type mockPlanUC struct {
	plans []model.Plan
}

func (m *mockPlanUC) List(ctx context.Context) ([]model.Plan, error) {
	return m.plans, nil
}

func (m *mockPlanUC) Get(ctx context.Context, id string) (model.Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Plan{}, domain.ErrNotFound
}
