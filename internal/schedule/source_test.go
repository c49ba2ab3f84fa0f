package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamsim/backend-store/internal/lock"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

type fakeLister struct {
	schedules []Schedule
	err       error
	calls     int
}

func (f *fakeLister) ListActive(context.Context, time.Time) ([]Schedule, error) {
	f.calls++
	return f.schedules, f.err
}

func sampleSchedule(id string, priority int) Schedule {
	return Schedule{
		ID:            id,
		Type:          TypeDiscount,
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		StartsAt:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Priority:      priority,
		IsActive:      true,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	client, _ := newRedis(t)
	cache := Cache{Client: client, TTL: time.Minute}
	ctx := context.Background()

	snap := Snapshot{
		Schedules:   []Schedule{sampleSchedule("s1", 10)},
		RefreshedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Set(ctx, snap))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Schedules, 1)
	assert.Equal(t, "s1", got.Schedules[0].ID)
	assert.True(t, got.RefreshedAt.Equal(snap.RefreshedAt))
}

func TestCacheCorruptPayloadIsMiss(t *testing.T) {
	client, mr := newRedis(t)
	require.NoError(t, mr.Set(SnapshotKey, "{broken"))

	_, ok, err := Cache{Client: client}.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSourcePrefersSnapshot(t *testing.T) {
	client, _ := newRedis(t)
	cache := Cache{Client: client, TTL: time.Minute}
	require.NoError(t, cache.Set(context.Background(), Snapshot{
		Schedules: []Schedule{sampleSchedule("cached", 5)},
	}))

	store := &fakeLister{schedules: []Schedule{sampleSchedule("db", 5)}}
	source := Source{Store: store, Cache: cache, Logger: zerolog.Nop()}

	got := source.Active(context.Background(), time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "cached", got[0].ID)
	assert.Zero(t, store.calls)
}

func TestSourceFallsBackToStoreAndWritesBack(t *testing.T) {
	client, _ := newRedis(t)
	cache := Cache{Client: client, TTL: time.Minute}
	store := &fakeLister{schedules: []Schedule{sampleSchedule("db", 5)}}
	source := Source{Store: store, Cache: cache, Logger: zerolog.Nop()}

	got := source.Active(context.Background(), time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "db", got[0].ID)

	// The miss populated the snapshot for the next caller.
	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSourceDegradesToEmptySet(t *testing.T) {
	store := &fakeLister{err: errors.New("connection refused")}
	source := Source{Store: store, Logger: zerolog.Nop()}

	got := source.Active(context.Background(), time.Now())
	assert.Nil(t, got)
}

func TestRefresherWritesSnapshot(t *testing.T) {
	client, _ := newRedis(t)
	cache := Cache{Client: client, TTL: time.Minute}
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	refresher := &Refresher{
		Store:   &fakeLister{schedules: []Schedule{sampleSchedule("s1", 10)}},
		Cache:   cache,
		Locker:  lock.Locker{R: client},
		LockTTL: 10 * time.Second,
		Now:     func() time.Time { return now },
		Logger:  zerolog.Nop(),
	}
	require.NoError(t, refresher.Refresh(context.Background()))

	snap, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap.Schedules, 1)
	assert.True(t, snap.RefreshedAt.Equal(now))
}

func TestRefresherSurfacesStoreError(t *testing.T) {
	client, _ := newRedis(t)
	refresher := &Refresher{
		Store:   &fakeLister{err: errors.New("boom")},
		Cache:   Cache{Client: client},
		Locker:  lock.Locker{R: client},
		LockTTL: 10 * time.Second,
		Logger:  zerolog.Nop(),
	}
	assert.Error(t, refresher.Refresh(context.Background()))
}
