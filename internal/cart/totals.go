package cart

import (
	"time"

	"github.com/roamsim/backend-store/internal/coupon"
	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/schedule"
)

// LineTotal is the per-line breakdown included in a totals response.
type LineTotal struct {
	PackageID    string                  `json:"packageId"`
	PackageCode  string                  `json:"packageCode"`
	Name         string                  `json:"name"`
	Quantity     int                     `json:"quantity"`
	PeriodNum    *int                    `json:"periodNum,omitempty"`
	UnitOriginal int64                   `json:"unitOriginal"`
	UnitFinal    int64                   `json:"unitFinal"`
	LineOriginal int64                   `json:"lineOriginal"`
	LineFinal    int64                   `json:"lineFinal"`
	Pricing      schedule.EffectivePrice `json:"pricing"`
	DisplayFinal string                  `json:"displayFinal"`
	DisplayWas   string                  `json:"displayWas,omitempty"`
}

// Totals is the full cart computation in the cart's currency. All amounts use
// the currency's integer units: catalog-encoded cents for USD, whole rupiah
// for IDR.
type Totals struct {
	Currency         currency.Code `json:"currency"`
	Lines            []LineTotal   `json:"lines"`
	OriginalSubtotal int64         `json:"originalSubtotal"`
	Subtotal         int64         `json:"subtotal"`
	ScheduleDiscount int64         `json:"scheduleDiscount"`
	CouponCode       string        `json:"couponCode,omitempty"`
	CouponValid      bool          `json:"couponValid"`
	CouponDiscount   int64         `json:"couponDiscount"`
	Total            int64         `json:"total"`
	DisplaySubtotal  string        `json:"displaySubtotal"`
	DisplayTotal     string        `json:"displayTotal"`
}

// CalculateTotals aggregates the cart against the current schedule set. It is
// pure: the same cart, schedules and instant always produce the same totals,
// so re-requesting totals never drifts.
//
// A cached coupon that is no longer valid for the cart currency contributes
// zero but stays in the breakdown with couponValid=false; only an explicit
// currency switch strips it.
func CalculateTotals(c Cart, schedules []schedule.Schedule, now time.Time) Totals {
	t := Totals{Currency: c.Currency, Lines: make([]LineTotal, 0, len(c.Items))}

	for _, item := range c.Items {
		eff := schedule.Resolve(item.PackageID, item.OriginalUsdCents, item.OriginalIdr, schedules, now)

		var unitOriginal, unitFinal int64
		if c.Currency == currency.IDR {
			unitOriginal, unitFinal = eff.OriginalIdr, eff.FinalIdr
		} else {
			unitOriginal, unitFinal = eff.OriginalUsdCents, eff.FinalUsdCents
		}

		mult := item.Multiplier()
		line := LineTotal{
			PackageID:    item.PackageID,
			PackageCode:  item.PackageCode,
			Name:         item.Name,
			Quantity:     item.Quantity,
			PeriodNum:    item.PeriodNum,
			UnitOriginal: unitOriginal,
			UnitFinal:    unitFinal,
			LineOriginal: unitOriginal * mult,
			LineFinal:    unitFinal * mult,
			Pricing:      eff,
			DisplayFinal: display(unitFinal*mult, c.Currency),
		}
		if line.LineOriginal > line.LineFinal {
			line.DisplayWas = display(line.LineOriginal, c.Currency)
		}
		t.Lines = append(t.Lines, line)
		t.OriginalSubtotal += line.LineOriginal
		t.Subtotal += line.LineFinal
	}
	t.ScheduleDiscount = t.OriginalSubtotal - t.Subtotal

	if c.Coupon != nil {
		t.CouponCode = c.Coupon.Code
		t.CouponValid = c.Coupon.ValidForCurrency(c.Currency)
		if t.CouponValid {
			t.CouponDiscount = c.Coupon.Discount(c.Currency, t.Subtotal)
		}
	}
	t.Total = coupon.FinalTotal(t.Subtotal, t.CouponDiscount, true)

	t.DisplaySubtotal = display(t.Subtotal, c.Currency)
	t.DisplayTotal = display(t.Total, c.Currency)
	return t
}

func display(amount int64, cur currency.Code) string {
	return currency.Format(amount, cur, currency.EncodingEsimAccess)
}
