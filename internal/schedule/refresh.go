package schedule

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/lock"
	"github.com/roamsim/backend-store/internal/obs"
)

// TaskRefresh is the asynq task type for the periodic snapshot refresh.
const TaskRefresh = "schedule:refresh"

const refreshLockKey = "lock:schedule:refresh"

// NewRefreshTask builds the refresh task enqueued by the worker scheduler.
func NewRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskRefresh, nil)
}

// Refresher rebuilds the Redis schedule snapshot from Postgres. A Redis lock
// keeps concurrent worker instances from refreshing simultaneously.
type Refresher struct {
	Store   Lister
	Cache   Cache
	Locker  lock.Locker
	LockTTL time.Duration
	Now     func() time.Time
	Logger  zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (r *Refresher) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	return r.Refresh(ctx)
}

// Refresh performs one snapshot rebuild.
func (r *Refresher) Refresh(ctx context.Context) error {
	ttl := r.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return r.Locker.WithLock(ctx, refreshLockKey, ttl, func(ctx context.Context) error {
		now := time.Now()
		if r.Now != nil {
			now = r.Now()
		}
		schedules, err := r.Store.ListActive(ctx, now)
		if err != nil {
			countRefresh("error")
			r.Logger.Error().Err(err).Msg("schedule refresh failed")
			return err
		}
		if err := r.Cache.Set(ctx, Snapshot{Schedules: schedules, RefreshedAt: now}); err != nil {
			countRefresh("error")
			r.Logger.Error().Err(err).Msg("schedule snapshot write failed")
			return err
		}
		countRefresh("ok")
		r.Logger.Info().Int("schedules", len(schedules)).Msg("schedule snapshot refreshed")
		return nil
	})
}

func countRefresh(result string) {
	if obs.ScheduleRefreshTotal != nil {
		obs.ScheduleRefreshTotal.WithLabelValues(result).Inc()
	}
}

