package schedule

import "time"

// Type distinguishes the two promotional mechanisms.
type Type string

const (
	// TypePriceOverride replaces the package price with explicit values.
	TypePriceOverride Type = "price_override"
	// TypeDiscount reduces the package price by a percentage or fixed amount.
	TypeDiscount Type = "discount"
)

// DiscountType qualifies a discount-type schedule.
type DiscountType string

const (
	// DiscountPercentage reduces each currency price by a percentage.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed subtracts a catalog-encoded USD amount; the rupiah price
	// is derived proportionally from the USD reduction.
	DiscountFixed DiscountType = "fixed"
)

// Schedule is a time-boxed promotional rule, scoped to a single package or
// global when PackageID is nil. Schedules are authored by an external admin
// system and read-only here.
type Schedule struct {
	ID               string       `json:"id"`
	PackageID        *string      `json:"packageId"`
	Name             string       `json:"name"`
	Type             Type         `json:"scheduleType"`
	DiscountType     DiscountType `json:"discountType,omitempty"`
	DiscountValue    float64      `json:"discountValue,omitempty"`
	OverrideUsdCents *int64       `json:"overridePriceUsdCents,omitempty"`
	OverrideIdr      *int64       `json:"overridePriceIdr,omitempty"`
	StartsAt         time.Time    `json:"startsAt"`
	EndsAt           time.Time    `json:"endsAt"`
	Priority         int          `json:"priority"`
	IsActive         bool         `json:"isActive"`
	BadgeText        *string      `json:"badgeText,omitempty"`
	BadgeColor       *string      `json:"badgeColor,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// AppliesTo reports whether the schedule matches the package at the instant.
// Both window bounds are inclusive.
func (s Schedule) AppliesTo(packageID string, now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if now.Before(s.StartsAt) || now.After(s.EndsAt) {
		return false
	}
	return s.PackageID == nil || *s.PackageID == packageID
}
