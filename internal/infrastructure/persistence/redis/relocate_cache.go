package redis

import (
	"context"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
)

// RelocateCache implements the relocate.Cache interface using the generic
// Redis Cache. The full dataset is stored as one JSON blob under a single
// key; it is small and always served whole.
type RelocateCache struct {
	cache *Cache
}

// NewRelocateCache creates a new RelocateCache.
func NewRelocateCache(cache *Cache) *RelocateCache {
	return &RelocateCache{
		cache: cache,
	}
}

// Get returns the cached dataset.
func (r *RelocateCache) Get(ctx context.Context) (*relocate.Dataset, error) {
	var ds relocate.Dataset
	if err := r.cache.Get(ctx, RelocateKey(""), &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Set stores the dataset in cache.
func (r *RelocateCache) Set(ctx context.Context, dataset *relocate.Dataset, ttl time.Duration) error {
	if dataset == nil {
		return nil
	}
	return r.cache.Set(ctx, RelocateKey(""), dataset, ttl)
}

// Invalidate removes the cached dataset.
func (r *RelocateCache) Invalidate(ctx context.Context) error {
	return r.cache.Delete(ctx, RelocateKey(""))
}
