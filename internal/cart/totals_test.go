package cart

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamsim/backend-store/internal/catalog"
	"github.com/roamsim/backend-store/internal/coupon"
	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/schedule"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func ptrInt(v int) *int     { return &v }
func ptrI64(v int64) *int64 { return &v }

func fixedItem(id string, usd, idr int64, qty int) Item {
	return Item{
		PackageID:        id,
		PackageCode:      "PKG-" + id,
		Name:             "Package " + id,
		DataType:         catalog.DataTypeFixed,
		OriginalUsdCents: usd,
		OriginalIdr:      idr,
		Quantity:         qty,
	}
}

func TestTotalsEmptyCart(t *testing.T) {
	got := CalculateTotals(Cart{ID: "c1", Currency: currency.USD}, nil, testNow)
	assert.Zero(t, got.Subtotal)
	assert.Zero(t, got.Total)
	assert.Equal(t, "$0.00", got.DisplayTotal)
}

func TestTotalsQuantityMultiplier(t *testing.T) {
	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items:    []Item{fixedItem("p1", 100000, 150000, 3)},
	}
	got := CalculateTotals(c, nil, testNow)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(300000), got.Subtotal)
	assert.Equal(t, "$30.00", got.DisplayTotal)
}

func TestTotalsDailyPackagePeriodMultiplier(t *testing.T) {
	// A $0.50/day plan bought as 7 days x 2 units: 5000 x 7 x 2 = 70000 ($7.00).
	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items: []Item{{
			PackageID:        "daily1",
			DataType:         catalog.DataTypeDailyUnlimited,
			OriginalUsdCents: 5000,
			OriginalIdr:      8000,
			Quantity:         2,
			PeriodNum:        ptrInt(7),
		}},
	}
	got := CalculateTotals(c, nil, testNow)
	assert.Equal(t, int64(70000), got.Subtotal)
	assert.Equal(t, "$7.00", got.DisplayTotal)
}

func TestTotalsPeriodNumIgnoredForFixedPackages(t *testing.T) {
	item := fixedItem("p1", 100000, 150000, 1)
	item.PeriodNum = ptrInt(7)
	got := CalculateTotals(Cart{ID: "c1", Currency: currency.USD, Items: []Item{item}}, nil, testNow)
	assert.Equal(t, int64(100000), got.Subtotal)
}

func TestTotalsScheduleDiscountApplied(t *testing.T) {
	schedules := []schedule.Schedule{{
		ID:            "s1",
		Type:          schedule.TypeDiscount,
		DiscountType:  schedule.DiscountPercentage,
		DiscountValue: 20,
		StartsAt:      testNow.Add(-time.Hour),
		EndsAt:        testNow.Add(time.Hour),
		Priority:      10,
		IsActive:      true,
	}}
	c := Cart{ID: "c1", Currency: currency.USD, Items: []Item{fixedItem("p1", 100000, 150000, 2)}}
	got := CalculateTotals(c, schedules, testNow)
	assert.Equal(t, int64(200000), got.OriginalSubtotal)
	assert.Equal(t, int64(160000), got.Subtotal)
	assert.Equal(t, int64(40000), got.ScheduleDiscount)
	assert.Equal(t, "$20.00", got.Lines[0].DisplayWas)
	assert.Equal(t, "$16.00", got.Lines[0].DisplayFinal)
}

func TestTotalsIdrUsesRupiahAmounts(t *testing.T) {
	c := Cart{ID: "c1", Currency: currency.IDR, Items: []Item{fixedItem("p1", 100000, 150000, 1)}}
	got := CalculateTotals(c, nil, testNow)
	assert.Equal(t, int64(150000), got.Subtotal)
	assert.Equal(t, "Rp150.000", got.DisplayTotal)
}

func TestTotalsCouponDiscountAndClamp(t *testing.T) {
	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items:    []Item{fixedItem("p1", 30000, 50000, 1)},
		Coupon: &coupon.Applied{
			Code:          "FLAT5",
			DiscountType:  coupon.Fixed,
			DiscountValue: 50000,
		},
	}
	got := CalculateTotals(c, nil, testNow)
	assert.Equal(t, int64(30000), got.Subtotal)
	assert.Equal(t, int64(50000), got.CouponDiscount)
	// Final total never goes negative.
	assert.Equal(t, int64(0), got.Total)
	assert.Equal(t, "$0.00", got.DisplayTotal)
}

func TestTotalsPercentageCouponSurvivesCurrencySwitch(t *testing.T) {
	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items:    []Item{fixedItem("p1", 100000, 150000, 1)},
		Coupon:   &coupon.Applied{Code: "SAVE10", DiscountType: coupon.Percentage, DiscountValue: 10},
	}
	usd := CalculateTotals(c, nil, testNow)
	assert.True(t, usd.CouponValid)
	assert.Equal(t, int64(10000), usd.CouponDiscount)

	c.Currency = currency.IDR
	idr := CalculateTotals(c, nil, testNow)
	assert.True(t, idr.CouponValid)
	assert.Equal(t, int64(15000), idr.CouponDiscount)
}

func TestTotalsIncompatibleCouponContributesZero(t *testing.T) {
	// A USD-only fixed coupon left in an IDR cart counts as invalid, not as a
	// discount of zero dollars converted.
	c := Cart{
		ID:       "c1",
		Currency: currency.IDR,
		Items:    []Item{fixedItem("p1", 100000, 150000, 1)},
		Coupon:   &coupon.Applied{Code: "USD5", DiscountType: coupon.Fixed, DiscountValue: 50000},
	}
	got := CalculateTotals(c, nil, testNow)
	assert.False(t, got.CouponValid)
	assert.Zero(t, got.CouponDiscount)
	assert.Equal(t, int64(150000), got.Total)
}

func TestTotalsCouponCapPerCurrency(t *testing.T) {
	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items:    []Item{fixedItem("p1", 1000000, 1500000, 1)},
		Coupon: &coupon.Applied{
			Code:             "HALF",
			DiscountType:     coupon.Percentage,
			DiscountValue:    50,
			MaxDiscountCents: ptrI64(200000),
		},
	}
	got := CalculateTotals(c, nil, testNow)
	assert.Equal(t, int64(200000), got.CouponDiscount)
	assert.Equal(t, int64(800000), got.Total)
}

func TestTotalsDeterministic(t *testing.T) {
	schedules := []schedule.Schedule{{
		ID:            "s1",
		Type:          schedule.TypeDiscount,
		DiscountType:  schedule.DiscountPercentage,
		DiscountValue: 15,
		StartsAt:      testNow.Add(-time.Hour),
		EndsAt:        testNow.Add(time.Hour),
		Priority:      5,
		IsActive:      true,
	}}
	c := Cart{
		ID:       "c1",
		Currency: currency.USD,
		Items: []Item{
			fixedItem("p1", 100000, 150000, 2),
			fixedItem("p2", 250000, 400000, 1),
		},
		Coupon: &coupon.Applied{Code: "SAVE10", DiscountType: coupon.Percentage, DiscountValue: 10},
	}
	first := CalculateTotals(c, schedules, testNow)
	second := CalculateTotals(c, schedules, testNow)
	assert.True(t, reflect.DeepEqual(first, second))
}
