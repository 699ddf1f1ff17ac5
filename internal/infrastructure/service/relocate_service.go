package service

import (
	"context"
	"errors"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/redis"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/logger"
)

// RelocateService serves relocation datasets cache-aside: Redis first,
// then the external provider. The provider client already degrades to a
// static dataset, so GetDataset never fails on provider trouble alone.
type RelocateService struct {
	source relocate.Source
	cache  relocate.Cache
	log    *logger.Logger
}

// NewRelocateService creates a new RelocateService.
func NewRelocateService(source relocate.Source, cache relocate.Cache, log *logger.Logger) *RelocateService {
	if log == nil {
		log = logger.Default()
	}
	return &RelocateService{
		source: source,
		cache:  cache,
		log:    log.With(logger.String("component", "relocate_service")),
	}
}

// GetDataset returns the current dataset, preferring the cache.
// Fallback datasets are served but never cached, so a recovered provider
// is picked up on the next request instead of after the TTL.
func (s *RelocateService) GetDataset(ctx context.Context) (*relocate.Dataset, error) {
	if s.cache != nil {
		ds, err := s.cache.Get(ctx)
		if err == nil && !ds.IsEmpty() {
			return ds, nil
		}
		if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
			s.log.Warn("relocate cache read failed", logger.Err(err))
		}
	}

	ds, err := s.source.FetchDataset(ctx)
	if err != nil {
		return nil, relocate.ErrDatasetUnavailable
	}

	if s.cache != nil && ds.Source == "live" {
		if err := s.cache.Set(ctx, ds, redis.TTLRelocateCache); err != nil {
			s.log.Warn("relocate cache write failed", logger.Err(err))
		}
	}

	return ds, nil
}

// Refresh fetches a fresh dataset and replaces the cached copy.
// Called by the scheduler so interactive requests rarely pay the
// provider round-trip.
func (s *RelocateService) Refresh(ctx context.Context) error {
	ds, err := s.source.FetchDataset(ctx)
	if err != nil {
		return err
	}
	if ds.Source != "live" {
		// Keep whatever is cached rather than overwrite it with the fallback.
		return nil
	}

	return s.cache.Set(ctx, ds, redis.TTLRelocateCache)
}
