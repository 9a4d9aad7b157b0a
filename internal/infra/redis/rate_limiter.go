package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter bounds how fast one subject can submit URLs: INCR a
// per-window counter, EXPIRE it on first touch, deny once over the limit.
type RateLimiter struct {
	client Client
}

func NewRateLimiter(client Client) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}
	return true, nil
}

func SubmitKey(subject string) string {
	return fmt.Sprintf("rate_limit:submit:%s", subject)
}
