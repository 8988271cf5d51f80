package dashboard

import (
	"context"
	"log/slog"
)

// CachedService serves snapshots from the cache, recomputing on miss.
// Partial snapshots are never cached so a degraded refresh does not pin
// zeroed tiles for the whole TTL.
type CachedService struct {
	service *Service
	cache   *Cache
	logger  *slog.Logger
}

// NewCachedService wraps a Service with the snapshot cache.
func NewCachedService(service *Service, cache *Cache, logger *slog.Logger) *CachedService {
	return &CachedService{service: service, cache: cache, logger: logger}
}

// Snapshot returns the cached snapshot when warm, otherwise refreshes and
// primes the cache. Cache failures degrade to direct aggregation.
func (s *CachedService) Snapshot(ctx context.Context) (Snapshot, error) {
	if snap, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("dashboard cache read failed", slog.Any("error", err))
	} else if ok {
		return snap, nil
	}
	return s.Warm(ctx)
}

// Warm recomputes the snapshot and primes the cache.
func (s *CachedService) Warm(ctx context.Context) (Snapshot, error) {
	snap, err := s.service.Refresh(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if !snap.Partial {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
		}
	}
	return snap, nil
}
