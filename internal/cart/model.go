package cart

import (
	"time"

	"github.com/roamsim/backend-store/internal/catalog"
	"github.com/roamsim/backend-store/internal/coupon"
	"github.com/roamsim/backend-store/internal/currency"
)

// Item is one cart line. Prices are a catalog snapshot taken when the line is
// added; effective (schedule-adjusted) prices are resolved at totals time so
// a promotion starting after the add still shows up.
type Item struct {
	PackageID        string           `json:"packageId"`
	PackageCode      string           `json:"packageCode"`
	Name             string           `json:"name"`
	DataType         catalog.DataType `json:"dataType"`
	OriginalUsdCents int64            `json:"originalUsdCents"`
	OriginalIdr      int64            `json:"originalIdr"`
	Quantity         int              `json:"quantity"`
	// PeriodNum is the number of daily-plan periods purchased. Only daily
	// packages carry it; nil means a single period.
	PeriodNum *int `json:"periodNum,omitempty"`
}

// Multiplier is how many unit prices this line contributes: quantity times
// the period count for daily packages.
func (i Item) Multiplier() int64 {
	mult := int64(i.Quantity)
	if i.DataType.Daily() && i.PeriodNum != nil && *i.PeriodNum > 1 {
		mult *= int64(*i.PeriodNum)
	}
	return mult
}

// Cart is the Redis-persisted shopping cart. Guests get one keyed by a
// server-issued ID; no authentication is attached.
type Cart struct {
	ID        string          `json:"id"`
	Currency  currency.Code   `json:"currency"`
	Items     []Item          `json:"items"`
	Coupon    *coupon.Applied `json:"coupon,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FindItem returns the index of the line holding packageID, or -1.
func (c *Cart) FindItem(packageID string) int {
	for i, it := range c.Items {
		if it.PackageID == packageID {
			return i
		}
	}
	return -1
}
