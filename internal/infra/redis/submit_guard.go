package redis

import (
	"context"
	"time"
)

// SubmitGuard binds the generic rate limiter to the submission flow: one
// fixed-window counter per authenticated subject.
type SubmitGuard struct {
	rl        *RateLimiter
	perMinute int
}

func NewSubmitGuard(rl *RateLimiter, perMinute int) *SubmitGuard {
	return &SubmitGuard{rl: rl, perMinute: perMinute}
}

func (g *SubmitGuard) Allow(ctx context.Context, subject string) (bool, error) {
	if subject == "" {
		subject = "anonymous"
	}
	return g.rl.Allow(ctx, SubmitKey(subject), g.perMinute, time.Minute)
}
