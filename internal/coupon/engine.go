package coupon

import (
	"errors"
	"math"
	"time"

	"github.com/roamsim/backend-store/internal/currency"
)

var (
	// ErrNotFound is returned for unknown or inactive codes.
	ErrNotFound = errors.New("coupon code invalid or inactive")
	// ErrNotStarted is returned when the code's window has not opened yet.
	ErrNotStarted = errors.New("coupon not active yet")
	// ErrExpired is returned when the code's window has closed.
	ErrExpired = errors.New("coupon expired")
	// ErrExhausted indicates the global usage cap has been reached.
	ErrExhausted = errors.New("coupon usage limit reached")
	// ErrCurrencyMismatch indicates the code cannot apply under the cart currency.
	ErrCurrencyMismatch = errors.New("coupon not valid for this currency")
	// ErrMinPurchase indicates the subtotal is below the code's minimum.
	ErrMinPurchase = errors.New("coupon minimum purchase not met")
	// ErrLookupTimeout distinguishes a slow lookup from a missing code so the
	// storefront can tell users to retry.
	ErrLookupTimeout = errors.New("coupon lookup timed out")
)

// DiscountType qualifies how a discount code reduces the subtotal.
type DiscountType string

const (
	// Percentage codes are currency-agnostic.
	Percentage DiscountType = "percentage"
	// Fixed codes store independent values per currency, unlike fixed price
	// schedules which derive rupiah proportionally.
	Fixed DiscountType = "fixed"
)

// Applied is the coupon snapshot cached in the cart once a code has been
// accepted. It carries everything needed to recompute the discount and
// re-check currency validity after a currency switch, without another lookup.
type Applied struct {
	Code             string         `json:"code"`
	DiscountType     DiscountType   `json:"discountType"`
	DiscountValue    float64        `json:"discountValue"`
	DiscountValueIdr *int64         `json:"discountValueIdr,omitempty"`
	CurrencyCode     *currency.Code `json:"currencyCode,omitempty"`
	MaxDiscountCents *int64         `json:"maxDiscountCents,omitempty"`
	MaxDiscountIdr   *int64         `json:"maxDiscountIdr,omitempty"`
}

// Record is the full discount-code row as stored by the admin system.
type Record struct {
	Applied
	ID               string
	MinPurchaseCents *int64
	MinPurchaseIdr   *int64
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	IsActive         bool
	CurrentUses      int
	MaxUses          *int
}

// ValidForCurrency reports whether the coupon can apply under the currency.
// Percentage coupons are valid everywhere. Fixed coupons require either an
// explicit matching currency restriction or a usable value for the currency's
// own field.
func (a Applied) ValidForCurrency(cur currency.Code) bool {
	if a.DiscountType == Percentage {
		return true
	}
	if a.CurrencyCode != nil {
		return *a.CurrencyCode == cur
	}
	switch cur {
	case currency.IDR:
		return a.DiscountValueIdr != nil && *a.DiscountValueIdr > 0
	default:
		return a.DiscountValue > 0
	}
}

// Discount computes the coupon reduction for the schedule-adjusted subtotal.
// Amounts are in the currency's integer units (catalog-encoded for USD,
// whole rupiah for IDR). Callers must have checked ValidForCurrency first; an
// incompatible coupon contributes zero.
func (a Applied) Discount(cur currency.Code, subtotal int64) int64 {
	if !a.ValidForCurrency(cur) {
		return 0
	}
	var discount int64
	switch a.DiscountType {
	case Percentage:
		discount = int64(math.Round(float64(subtotal) * a.DiscountValue / 100))
		if cur == currency.USD && a.MaxDiscountCents != nil && discount > *a.MaxDiscountCents {
			discount = *a.MaxDiscountCents
		}
		if cur == currency.IDR && a.MaxDiscountIdr != nil && discount > *a.MaxDiscountIdr {
			discount = *a.MaxDiscountIdr
		}
	case Fixed:
		if cur == currency.IDR {
			if a.DiscountValueIdr != nil {
				discount = *a.DiscountValueIdr
			}
		} else {
			discount = int64(a.DiscountValue)
		}
	}
	if discount < 0 {
		return 0
	}
	return discount
}

// Validate checks every applicability rule except code existence, which the
// lookup handles. The returned sentinel maps to a field-level storefront
// message; cart state is never mutated on failure.
func (r Record) Validate(cur currency.Code, subtotal int64, now time.Time) error {
	if !r.IsActive {
		return ErrNotFound
	}
	if r.StartsAt != nil && now.Before(*r.StartsAt) {
		return ErrNotStarted
	}
	if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
		return ErrExpired
	}
	if r.MaxUses != nil && r.CurrentUses >= *r.MaxUses {
		return ErrExhausted
	}
	if !r.ValidForCurrency(cur) {
		return ErrCurrencyMismatch
	}
	switch cur {
	case currency.IDR:
		if r.MinPurchaseIdr != nil && subtotal < *r.MinPurchaseIdr {
			return ErrMinPurchase
		}
	default:
		if r.MinPurchaseCents != nil && subtotal < *r.MinPurchaseCents {
			return ErrMinPurchase
		}
	}
	return nil
}

// FinalTotal applies a coupon discount to a subtotal, clamping at zero. An
// invalid coupon contributes nothing rather than being re-derived.
func FinalTotal(subtotal, discount int64, valid bool) int64 {
	if !valid {
		discount = 0
	}
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}
