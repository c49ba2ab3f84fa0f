package lock_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/roamsim/backend-store/internal/lock"
)

func newLocker(t *testing.T) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond}, mr
}

func TestWithLockRunsCallback(t *testing.T) {
	locker, mr := newLocker(t)
	ran := false
	err := locker.WithLock(context.Background(), "refresh", time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
	require.False(t, mr.Exists("refresh"), "lock must be released after the callback")
}

func TestWithLockBlocksWhileHeld(t *testing.T) {
	locker, mr := newLocker(t)
	require.NoError(t, mr.Set("refresh", "someone-else"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := locker.WithLock(ctx, "refresh", time.Second, func(context.Context) error {
		t.Fatal("callback must not run while the lock is held elsewhere")
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithLockRequiresCallback(t *testing.T) {
	locker, _ := newLocker(t)
	require.Error(t, locker.WithLock(context.Background(), "refresh", time.Second, nil))
}
