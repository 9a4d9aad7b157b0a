package usecase

import (
	"context"

	"sample-media-gateway/internal/domain/model"
	"sample-media-gateway/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// ListingCache is the slice of the cache layer the sample use case needs.
type ListingCache interface {
	GetListing(ctx context.Context, limit, offset int) ([]model.Sample, bool)
	StoreListing(ctx context.Context, limit, offset int, samples []model.Sample) error
	Invalidate(ctx context.Context) error
}

// Compile-time check
var _ SampleUseCase = (*sampleUC)(nil)

type SampleUseCase interface {
	// List serves the browsable catalog, cache first.
	List(ctx context.Context, limit, offset int) ([]model.Sample, error)
	// InvalidateListing is the content refresh trigger: the next List
	// bypasses the cache.
	InvalidateListing(ctx context.Context) error
}

type sampleUC struct {
	catalog adapter.CatalogAdapter
	cache   ListingCache
	log     *zerolog.Logger
}

func NewSampleUseCase(catalog adapter.CatalogAdapter, cache ListingCache, logger *zerolog.Logger) *sampleUC {
	ucLog := logger.With().Str("component", "SampleUC").Logger()
	return &sampleUC{catalog: catalog, cache: cache, log: &ucLog}
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (u *sampleUC) List(ctx context.Context, limit, offset int) ([]model.Sample, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	if samples, ok := u.cache.GetListing(ctx, limit, offset); ok {
		return samples, nil
	}

	samples, err := u.catalog.ListSamples(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := u.cache.StoreListing(ctx, limit, offset, samples); err != nil {
		// Serving fresh data matters more than caching it.
		u.log.Warn().Err(err).Msg("listing cache write failed")
	}
	return samples, nil
}

func (u *sampleUC) InvalidateListing(ctx context.Context) error {
	return u.cache.Invalidate(ctx)
}
