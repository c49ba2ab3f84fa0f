package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/obs"
)

// Lister abstracts the Postgres read used by Source and the refresh worker.
type Lister interface {
	ListActive(ctx context.Context, now time.Time) ([]Schedule, error)
}

// Source supplies the active schedule set to pricing callers. It prefers the
// Redis snapshot maintained by the worker, falls back to Postgres, and
// degrades to an empty set when both fail so package pages keep rendering at
// original prices.
type Source struct {
	Store  Lister
	Cache  Cache
	Logger zerolog.Logger
}

// Active never fails; on total backend failure it logs and returns nil.
func (s Source) Active(ctx context.Context, now time.Time) []Schedule {
	snap, ok, err := s.Cache.Get(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("schedule snapshot read failed")
	}
	if ok {
		countScheduleSource("cache")
		return snap.Schedules
	}

	if s.Store != nil {
		schedules, err := s.Store.ListActive(ctx, now)
		if err == nil {
			countScheduleSource("store")
			if cacheErr := s.Cache.Set(ctx, Snapshot{Schedules: schedules, RefreshedAt: now}); cacheErr != nil {
				s.Logger.Warn().Err(cacheErr).Msg("schedule snapshot write failed")
			}
			return schedules
		}
		s.Logger.Error().Err(err).Msg("schedule fetch failed, serving original prices")
	}
	countScheduleSource("empty")
	return nil
}

func countScheduleSource(origin string) {
	if obs.ScheduleSourceTotal != nil {
		obs.ScheduleSourceTotal.WithLabelValues(origin).Inc()
	}
}

