package catalog

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/schedule"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type stubStore struct {
	pkgs  []Package
	lists int
}

func (s *stubStore) Get(_ context.Context, id string) (Package, error) {
	for _, p := range s.pkgs {
		if p.ID == id {
			return p, nil
		}
	}
	return Package{}, ErrNotFound
}

func (s *stubStore) List(context.Context, ListParams) ([]Package, int64, error) {
	s.lists++
	return s.pkgs, int64(len(s.pkgs)), nil
}

func newFixture(t *testing.T) (*Service, *stubStore) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &stubStore{pkgs: []Package{
		{
			ID: "p1", Code: "SG-5GB", Name: "Singapore 5GB",
			CountryCode: "SG", DataType: DataTypeFixed,
			PriceUsdCents: 100000, PriceIdr: 165000, IsActive: true,
		},
	}}
	svc := &Service{
		Store:        store,
		Cache:        NewCache(client, time.Minute),
		Schedules:    schedule.Source{Logger: zerolog.Nop()},
		Logger:       zerolog.Nop(),
		Now:          func() time.Time { return testNow },
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
	return svc, store
}

func TestParseListParams(t *testing.T) {
	svc, _ := newFixture(t)

	p, err := svc.ParseListParams(url.Values{"country": {"sg"}, "type": {"daily_unlimited"}, "page": {"2"}, "limit": {"500"}})
	require.NoError(t, err)
	assert.Equal(t, "SG", p.CountryCode)
	assert.Equal(t, DataTypeDailyUnlimited, p.DataType)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 100, p.Limit)

	_, err = svc.ParseListParams(url.Values{"type": {"hourly"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListCachesRawRowsNotPricing(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()
	params := ListParams{Page: 1, Limit: 20}

	first, err := svc.List(ctx, params, currency.USD)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "$10.00", first.Items[0].DisplayPrice)

	// Second call hits the listing cache.
	_, err = svc.List(ctx, params, currency.USD)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists)

	// Pricing is computed per request, so a currency change does not need a
	// separate cache entry.
	idr, err := svc.List(ctx, params, currency.IDR)
	require.NoError(t, err)
	assert.Equal(t, "Rp165.000", idr.Items[0].DisplayPrice)
	assert.Equal(t, 1, store.lists)
}

func TestGetPricedAppliesSchedule(t *testing.T) {
	svc, _ := newFixture(t)
	svc.Schedules = schedule.Source{
		Store: scheduleLister{schedule.Schedule{
			ID:            "s1",
			Type:          schedule.TypeDiscount,
			DiscountType:  schedule.DiscountPercentage,
			DiscountValue: 20,
			StartsAt:      testNow.Add(-time.Hour),
			EndsAt:        testNow.Add(time.Hour),
			Priority:      10,
			IsActive:      true,
		}},
		Logger: zerolog.Nop(),
	}

	got, err := svc.GetPriced(context.Background(), "p1", currency.USD)
	require.NoError(t, err)
	assert.True(t, got.Pricing.HasDiscount)
	assert.Equal(t, int64(80000), got.Pricing.FinalUsdCents)
	assert.Equal(t, "$8.00", got.DisplayPrice)
	assert.Equal(t, "$10.00", got.DisplayWas)
}

func TestGetPricedUnknownPackage(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.GetPriced(context.Background(), "nope", currency.USD)
	assert.ErrorIs(t, err, ErrNotFound)
}

type scheduleLister []schedule.Schedule

func (l scheduleLister) ListActive(context.Context, time.Time) ([]schedule.Schedule, error) {
	return l, nil
}
