package catalog

import "time"

// DataType classifies how a package meters data. Daily types carry a per-day
// price; the storefront multiplies by a user-chosen day count at cart time.
type DataType string

const (
	// DataTypeFixed is a flat-priced fixed-volume package.
	DataTypeFixed DataType = "fixed"
	// DataTypeDailySpeedCap throttles speed after the daily allowance.
	DataTypeDailySpeedCap DataType = "daily_speed_cap"
	// DataTypeDailyCutoff suspends service after the daily allowance.
	DataTypeDailyCutoff DataType = "daily_cutoff"
	// DataTypeDailyUnlimited has no daily allowance.
	DataTypeDailyUnlimited DataType = "daily_unlimited"
)

// Daily reports whether the package price is a per-day rate.
func (d DataType) Daily() bool {
	switch d {
	case DataTypeDailySpeedCap, DataTypeDailyCutoff, DataTypeDailyUnlimited:
		return true
	default:
		return false
	}
}

// Package is a purchasable eSIM data offer. Prices carry both currencies in
// parallel: PriceUsdCents uses the catalog encoding (10 000 units per dollar)
// and PriceIdr is whole rupiah. Records live in the managed Postgres instance
// and are read-only here.
type Package struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	CountryCode   string    `json:"countryCode"`
	Region        string    `json:"region"`
	DataType      DataType  `json:"dataType"`
	DataAmountMB  int64     `json:"dataAmountMb"`
	Duration      int       `json:"duration"`
	DurationUnit  string    `json:"durationUnit"`
	PriceUsdCents int64     `json:"priceUsdCents"`
	PriceIdr      int64     `json:"priceIdr"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}
