package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"
	"sample-media-gateway/internal/domain/ports/repository"
	"sample-media-gateway/internal/infra/logging"
	"sample-media-gateway/internal/infra/metrics"
	"sample-media-gateway/internal/infra/tracker"

	"github.com/rs/zerolog"
)

// SubmitLimiter bounds submission rate per authenticated subject.
type SubmitLimiter interface {
	Allow(ctx context.Context, subject string) (bool, error)
}

// Compile-time check
var _ TrackUseCase = (*trackUC)(nil)

// TrackUseCase is the submission side of the job tracker: it validates and
// forwards URL submissions, seeds the Task Store, and answers status reads.
type TrackUseCase interface {
	Submit(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error)
	Status(ctx context.Context, taskID string) (adapter.JobStatus, error)
	Tasks(ctx context.Context) []model.Task
	History(ctx context.Context, limit int) ([]*model.TaskLogEntry, error)
}

type trackUC struct {
	store   *tracker.Store
	api     adapter.JobAPIAdapter
	limiter SubmitLimiter                // optional
	audit   repository.TaskLogRepository // optional, nil without a database
	log     *zerolog.Logger
}

func NewTrackUseCase(
	store *tracker.Store,
	api adapter.JobAPIAdapter,
	limiter SubmitLimiter,
	audit repository.TaskLogRepository,
	logger *zerolog.Logger,
) *trackUC {
	ucLog := logger.With().Str("component", "TrackUC").Logger()
	return &trackUC{store: store, api: api, limiter: limiter, audit: audit, log: &ucLog}
}

func (u *trackUC) Submit(ctx context.Context, provider, rawURL, bearer, subject string) (model.Task, error) {
	defer logging.TraceDuration(u.log, "TrackUC.Submit")()

	// Reject before any network call when the credential is missing.
	if strings.TrimSpace(bearer) == "" {
		return model.Task{}, domain.ErrUnauthenticated
	}
	if !model.ValidProvider(provider) {
		return model.Task{}, fmt.Errorf("%w: unsupported provider %q", domain.ErrInvalidArgument, provider)
	}
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return model.Task{}, fmt.Errorf("%w: not a valid media URL", domain.ErrInvalidArgument)
	}

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, subject)
		if err != nil {
			// A broken limiter should not block submissions.
			u.log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !ok {
			return model.Task{}, domain.ErrRateLimited
		}
	}

	taskID, err := u.api.Submit(ctx, provider, rawURL, bearer)
	if err != nil {
		return model.Task{}, err
	}

	// Re-submitting the same URL yields an independent new task ID, so a
	// duplicate here means this exact task is already tracked.
	if err := u.store.Add(taskID, rawURL); err != nil {
		u.log.Warn().Err(err).Str("task_id", taskID).Msg("task already tracked")
	}
	metrics.IncSubmission(provider)

	if u.audit != nil {
		entry := &model.TaskLogEntry{
			TaskID:   taskID,
			Provider: provider,
			URL:      rawURL,
			Status:   model.TaskStatusPending,
		}
		if err := u.audit.Save(ctx, entry); err != nil {
			u.log.Warn().Err(err).Str("task_id", taskID).Msg("audit write failed")
		}
	}

	task, ok := u.store.Get(taskID)
	if !ok {
		// Removed between Add and Get; hand back the pending view anyway.
		task = model.Task{TaskID: taskID, URL: rawURL, Status: model.TaskStatusPending}
	}
	return task, nil
}

// Status answers from the Task Store when the task is tracked locally and
// proxies to the backend otherwise (e.g. a status poll after a restart).
func (u *trackUC) Status(ctx context.Context, taskID string) (adapter.JobStatus, error) {
	if t, ok := u.store.Get(taskID); ok {
		st := adapter.JobStatus{Status: t.Status, Message: t.Message, Progress: -1}
		if t.Status == model.TaskStatusProcessing {
			st.Progress = t.Progress
		}
		if t.Status == model.TaskStatusFailed {
			st.Error = t.Message
		}
		return st, nil
	}
	return u.api.Status(ctx, taskID)
}

func (u *trackUC) Tasks(ctx context.Context) []model.Task {
	return u.store.List()
}

func (u *trackUC) History(ctx context.Context, limit int) ([]*model.TaskLogEntry, error) {
	if u.audit == nil {
		return []*model.TaskLogEntry{}, nil
	}
	return u.audit.ListRecent(ctx, limit)
}
