package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamsim/backend-store/internal/currency"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items:    []Item{fixedItem("p1", 100000, 150000, 2)},
	}
	require.NoError(t, store.Save(ctx, c))

	got, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Currency, got.Currency)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(100000), got.Items[0].OriginalUsdCents)
}

func TestStoreMissingCart(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCorruptPayloadIsMiss(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("cart:bad", "{not json"))
	_, err := store.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSaveRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Cart{ID: "c1", Currency: currency.USD}))
	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Save(ctx, Cart{ID: "c1", Currency: currency.USD}))
	mr.FastForward(45 * time.Minute)

	_, err := store.Get(ctx, "c1")
	require.NoError(t, err)

	mr.FastForward(time.Hour)
	_, err = store.Get(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Cart{ID: "c1", Currency: currency.IDR}))
	require.NoError(t, store.Delete(ctx, "c1"))
	_, err := store.Get(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}
