package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/cart"
	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/obs"
	"github.com/roamsim/backend-store/internal/schedule"
)

// ErrEmptyCart rejects a submission with no purchasable lines.
var ErrEmptyCart = errors.New("cart is empty")

// SubmissionItem is one provisioning line forwarded to the eSIM supplier.
type SubmissionItem struct {
	PackageCode string `json:"packageCode"`
	Quantity    int    `json:"quantity"`
	PeriodNum   *int   `json:"periodNum,omitempty"`
}

// Submission is the payload the storefront forwards to the external checkout
// flow. Amounts are catalog-encoded in the submission currency; payment
// itself happens outside this service.
type Submission struct {
	CartID     string           `json:"cartId"`
	Currency   currency.Code    `json:"currency"`
	Items      []SubmissionItem `json:"items"`
	CouponCode string           `json:"couponCode,omitempty"`
	Totals     cart.Totals      `json:"totals"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// CartLoader is the cart surface the service needs; *cart.Service satisfies it.
type CartLoader interface {
	Get(ctx context.Context, id string) (cart.Cart, error)
}

// Service assembles checkout submissions from carts using the same totals
// computation the cart endpoints serve, so the amount the user saw is the
// amount submitted.
type Service struct {
	Carts     CartLoader
	Schedules schedule.Source
	Logger    zerolog.Logger
	Now       func() time.Time
}

func NewService(carts CartLoader, schedules schedule.Source, logger zerolog.Logger) *Service {
	return &Service{
		Carts:     carts,
		Schedules: schedules,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Submit builds the submission for a cart. The cart itself is left intact;
// it is cleared only after the external flow confirms payment.
func (s *Service) Submit(ctx context.Context, cartID string) (Submission, error) {
	c, err := s.Carts.Get(ctx, cartID)
	if err != nil {
		s.countSubmit("", "error")
		return Submission{}, err
	}
	if len(c.Items) == 0 {
		s.countSubmit(string(c.Currency), "empty")
		return Submission{}, ErrEmptyCart
	}

	now := s.Now()
	totals := cart.CalculateTotals(c, s.Schedules.Active(ctx, now), now)

	sub := Submission{
		CartID:    c.ID,
		Currency:  c.Currency,
		Items:     make([]SubmissionItem, 0, len(c.Items)),
		Totals:    totals,
		CreatedAt: now,
	}
	for _, item := range c.Items {
		sub.Items = append(sub.Items, SubmissionItem{
			PackageCode: item.PackageCode,
			Quantity:    item.Quantity,
			PeriodNum:   item.PeriodNum,
		})
	}
	if c.Coupon != nil && totals.CouponValid {
		sub.CouponCode = c.Coupon.Code
	}

	s.Logger.Info().
		Str("cart_id", c.ID).
		Str("currency", string(c.Currency)).
		Int("items", len(sub.Items)).
		Int64("total", totals.Total).
		Msg("checkout submission assembled")
	s.countSubmit(string(c.Currency), "ok")
	return sub, nil
}

func (s *Service) countSubmit(cur, result string) {
	if obs.CheckoutSubmissionTotal != nil {
		obs.CheckoutSubmissionTotal.WithLabelValues(cur, result).Inc()
	}
}
