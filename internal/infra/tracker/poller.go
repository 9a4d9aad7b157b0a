package tracker

import (
	"context"
	"time"

	"sample-media-gateway/internal/config"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"
	"sample-media-gateway/internal/domain/ports/repository"
	"sample-media-gateway/internal/infra/metrics"
	"sample-media-gateway/internal/infra/worker"

	"github.com/rs/zerolog"
)

// Refresher invalidates the cached sample listing so newly completed work
// shows up in the catalog without a manual reload.
type Refresher interface {
	InvalidateListing(ctx context.Context) error
}

// Poller drives Task Store records to completion by periodically consulting
// the Backend Job API. One status lookup per active task per tick; lookups
// within a tick are independent and run on the shared pool.
type Poller struct {
	store     *Store
	api       adapter.JobAPIAdapter
	refresher Refresher
	pool      *worker.Pool
	audit     repository.TaskLogRepository // optional, nil without a database

	interval     time.Duration
	successGrace time.Duration
	failureGrace time.Duration
	refreshDelay time.Duration

	log *zerolog.Logger
}

func NewPoller(
	store *Store,
	api adapter.JobAPIAdapter,
	refresher Refresher,
	pool *worker.Pool,
	audit repository.TaskLogRepository,
	cfg config.TrackerConfig,
	logger *zerolog.Logger,
) *Poller {
	pollLog := logger.With().Str("component", "Poller").Logger()
	return &Poller{
		store:        store,
		api:          api,
		refresher:    refresher,
		pool:         pool,
		audit:        audit,
		interval:     cfg.PollInterval,
		successGrace: cfg.SuccessGrace,
		failureGrace: cfg.FailureGrace,
		refreshDelay: cfg.RefreshDelay,
		log:          &pollLog,
	}
}

// Run blocks until ctx is cancelled. Ticks with an empty store issue no
// lookups at all, so an idle gateway produces no backend traffic.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info().Dur("interval", p.interval).Msg("starting poller")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("stopping poller")
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	for _, t := range p.store.Active() {
		id := t.TaskID
		seq, ok := p.store.BeginLookup(id)
		if !ok {
			continue
		}
		if err := p.pool.Submit(func(ctx context.Context) error {
			p.lookup(ctx, id, seq)
			return nil
		}); err != nil {
			// saturated pool; this task is retried next tick
			p.log.Debug().Err(err).Str("task_id", id).Msg("lookup skipped")
		}
	}
}

func (p *Poller) lookup(ctx context.Context, taskID string, seq uint64) {
	st, err := p.api.Status(ctx, taskID)
	if err != nil {
		// Keep the prior state and retry on the next tick.
		metrics.IncPollError()
		p.log.Warn().Err(err).Str("task_id", taskID).Msg("status lookup failed")
		return
	}

	patch := Patch{Status: st.Status, Message: st.Message, Progress: st.Progress}
	if patch.Message == "" && st.Error != "" {
		patch.Message = st.Error
	}
	task, _, finished := p.store.ApplyResult(taskID, seq, patch)
	if finished {
		p.finish(ctx, task)
	}
}

func (p *Poller) finish(ctx context.Context, t model.Task) {
	metrics.IncTaskFinished(string(t.Status))
	if p.audit != nil {
		if err := p.audit.MarkFinished(ctx, t.TaskID, t.Status, t.Message); err != nil {
			p.log.Warn().Err(err).Str("task_id", t.TaskID).Msg("audit update failed")
		}
	}

	grace := p.failureGrace
	if t.Status == model.TaskStatusCompleted {
		grace = p.successGrace
		// Refresh twice: once now, once after a short delay to ride out
		// eventual-consistency lag in the backend's listing.
		p.refresh(ctx, "immediate")
		time.AfterFunc(p.refreshDelay, func() {
			p.refresh(context.Background(), "delayed")
		})
	}

	id := t.TaskID
	time.AfterFunc(grace, func() { p.store.Remove(id) })
	p.log.Info().Str("task_id", id).Str("status", string(t.Status)).Msg("task finished")
}

func (p *Poller) refresh(ctx context.Context, stage string) {
	if err := p.refresher.InvalidateListing(ctx); err != nil {
		// Best effort; the next natural listing read re-fetches anyway.
		p.log.Warn().Err(err).Str("stage", stage).Msg("listing refresh failed")
		return
	}
	metrics.IncListingRefresh(stage)
}
