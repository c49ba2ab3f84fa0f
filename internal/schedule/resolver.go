package schedule

import (
	"math"
	"sort"
	"time"
)

// EffectivePrice is the resolver output for one package at one instant. When
// no schedule applies the final prices equal the originals and all display
// fields are nil.
type EffectivePrice struct {
	OriginalUsdCents   int64    `json:"originalUsdCents"`
	OriginalIdr        int64    `json:"originalIdr"`
	FinalUsdCents      int64    `json:"finalUsdCents"`
	FinalIdr           int64    `json:"finalIdr"`
	HasDiscount        bool     `json:"hasDiscount"`
	DiscountPercentage *float64 `json:"discountPercentage"`
	BadgeText          *string  `json:"badgeText"`
	BadgeColor         *string  `json:"badgeColor"`
	ScheduleName       *string  `json:"scheduleName"`
}

// Resolve computes the effective price of a package against the provided
/// promotional schedules. It is pure: identical inputs and the same instant
// always yield the same output.
//
// Among applicable schedules the highest priority wins. An exact priority tie
// is broken deterministically in favour of the most recently created
// schedule, then the greater id.
func Resolve(packageID string, originalUsdCents, originalIdr int64, schedules []Schedule, now time.Time) EffectivePrice {
	out := EffectivePrice{
		OriginalUsdCents: originalUsdCents,
		OriginalIdr:      originalIdr,
		FinalUsdCents:    originalUsdCents,
		FinalIdr:         originalIdr,
	}

	matched := make([]Schedule, 0, len(schedules))
	for _, s := range schedules {
		if s.AppliesTo(packageID, now) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return out
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	selected := matched[0]

	switch {
	case selected.Type == TypePriceOverride:
		if selected.OverrideUsdCents != nil {
			out.FinalUsdCents = *selected.OverrideUsdCents
		}
		if selected.OverrideIdr != nil {
			out.FinalIdr = *selected.OverrideIdr
		}
		out.DiscountPercentage = derivedPercentage(originalUsdCents, out.FinalUsdCents)
	case selected.DiscountType == DiscountPercentage:
		ratio := 1 - selected.DiscountValue/100
		out.FinalUsdCents = roundedProduct(originalUsdCents, ratio)
		out.FinalIdr = roundedProduct(originalIdr, ratio)
		value := selected.DiscountValue
		out.DiscountPercentage = &value
	case selected.DiscountType == DiscountFixed:
		out.FinalUsdCents = originalUsdCents - int64(selected.DiscountValue)
		if out.FinalUsdCents < 0 {
			out.FinalUsdCents = 0
		}
		// Rupiah has no independent fixed value on schedules; it is derived
		// proportionally from the USD reduction. A zero-priced USD original
		// leaves the rupiah price untouched.
		if originalUsdCents > 0 {
			out.FinalIdr = roundedProduct(originalIdr, float64(out.FinalUsdCents)/float64(originalUsdCents))
		}
		out.DiscountPercentage = derivedPercentage(originalUsdCents, out.FinalUsdCents)
	}

	out.HasDiscount = out.FinalUsdCents < originalUsdCents || out.FinalIdr < originalIdr
	out.BadgeText = selected.BadgeText
	out.BadgeColor = selected.BadgeColor
	name := selected.Name
	out.ScheduleName = &name
	return out
}

func roundedProduct(amount int64, ratio float64) int64 {
	v := int64(math.Round(float64(amount) * ratio))
	if v < 0 {
		return 0
	}
	return v
}

// derivedPercentage returns the rounded USD discount percentage, or nil when
// the original price is zero and the ratio is undefined.
func derivedPercentage(original, final int64) *float64 {
	if original <= 0 {
		return nil
	}
	pct := math.Round(float64(original-final) / float64(original) * 100)
	return &pct
}
