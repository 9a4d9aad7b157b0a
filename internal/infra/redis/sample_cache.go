package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/infra/metrics"
)

const (
	// listingRootKey caches the default (first page) listing — the
	// primary content list the browser lands on.
	listingRootKey = "samples:listing"
	// listingTagKey is the set of every listing key written since the
	// last invalidation, so a tag-scoped flush catches paginated pages.
	listingTagKey = "cache_tag:samples"
)

// SampleCache is a TTL cache for the sample listing with tag-scoped
// invalidation: every stored page registers itself under the samples tag,
// and Invalidate drops the root key plus all tagged pages.
type SampleCache struct {
	client Client
	ttl    time.Duration
}

func NewSampleCache(client Client, ttl time.Duration) *SampleCache {
	return &SampleCache{client: client, ttl: ttl}
}

func listingKey(limit, offset int) string {
	if offset == 0 {
		return listingRootKey
	}
	return fmt.Sprintf("%s:%d:%d", listingRootKey, limit, offset)
}

func (c *SampleCache) GetListing(ctx context.Context, limit, offset int) ([]model.Sample, bool) {
	data, err := c.client.Get(ctx, listingKey(limit, offset))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncCacheRequest("samples", "miss")
		} else {
			metrics.IncCacheRequest("samples", "error")
		}
		return nil, false
	}

	var samples []model.Sample
	if err := json.Unmarshal([]byte(data), &samples); err != nil {
		metrics.IncCacheRequest("samples", "error")
		return nil, false
	}
	metrics.IncCacheRequest("samples", "hit")
	return samples, true
}

func (c *SampleCache) StoreListing(ctx context.Context, limit, offset int, samples []model.Sample) error {
	data, err := json.Marshal(samples)
	if err != nil {
		return err
	}
	key := listingKey(limit, offset)
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		return err
	}
	// Register under the tag so Invalidate can find this page later. The
	// tag set expires with its newest page.
	if err := c.client.SAdd(ctx, listingTagKey, key); err != nil {
		return err
	}
	return c.client.Expire(ctx, listingTagKey, c.ttl)
}

// Invalidate drops the root listing plus every tagged page. The next read
// bypasses the cache and re-fetches from the backend.
func (c *SampleCache) Invalidate(ctx context.Context) error {
	keys := []string{listingRootKey}
	tagged, err := c.client.SMembers(ctx, listingTagKey)
	if err == nil {
		keys = append(keys, tagged...)
	}
	keys = append(keys, listingTagKey)
	return c.client.Del(ctx, keys...)
}
