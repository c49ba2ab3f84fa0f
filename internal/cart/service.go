package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/catalog"
	"github.com/roamsim/backend-store/internal/coupon"
	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/obs"
	"github.com/roamsim/backend-store/internal/schedule"
)

var (
	// ErrInvalidInput covers malformed quantities, period counts and currency codes.
	ErrInvalidInput = errors.New("invalid input")
	// ErrItemNotFound is returned when a line targets a package not in the cart.
	ErrItemNotFound = errors.New("item not in cart")
)

const (
	maxQuantity  = 50
	maxPeriodNum = 365
)

// CouponApplier is the coupon validation surface; *coupon.Service satisfies it.
type CouponApplier interface {
	Apply(ctx context.Context, code string, cur currency.Code, subtotal int64) (coupon.Applied, int64, error)
}

// Storage is the persistence surface the service needs; *Store satisfies it.
type Storage interface {
	Get(ctx context.Context, id string) (Cart, error)
	Save(ctx context.Context, c Cart) error
	Delete(ctx context.Context, id string) error
}

// Service implements guest cart operations. All price amounts flow through in
// catalog encoding; formatting happens only in totals responses.
type Service struct {
	Store     Storage
	Packages  catalog.Getter
	Coupons   CouponApplier
	Schedules schedule.Source
	Logger    zerolog.Logger
	Now       func() time.Time
}

func NewService(store Storage, packages catalog.Getter, coupons CouponApplier, schedules schedule.Source, logger zerolog.Logger) *Service {
	return &Service{
		Store:     store,
		Packages:  packages,
		Coupons:   coupons,
		Schedules: schedules,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Create opens an empty cart in the given currency.
func (s *Service) Create(ctx context.Context, cur currency.Code) (Cart, error) {
	if !cur.Valid() {
		return Cart{}, fmt.Errorf("%w: currency %q", ErrInvalidInput, cur)
	}
	now := s.Now()
	c := Cart{
		ID:        uuid.NewString(),
		Currency:  cur,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Cart, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

// AddItem appends a package line, merging into an existing line for the same
// package. PeriodNum is only meaningful for daily packages and is rejected
// elsewhere so a stray multiplier can never inflate a fixed plan.
func (s *Service) AddItem(ctx context.Context, cartID, packageID string, quantity int, periodNum *int) (Cart, error) {
	if quantity < 1 || quantity > maxQuantity {
		return Cart{}, fmt.Errorf("%w: quantity %d", ErrInvalidInput, quantity)
	}
	if periodNum != nil && (*periodNum < 1 || *periodNum > maxPeriodNum) {
		return Cart{}, fmt.Errorf("%w: periodNum %d", ErrInvalidInput, *periodNum)
	}

	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	pkg, err := s.Packages.Get(ctx, packageID)
	if err != nil {
		return Cart{}, err
	}
	if !pkg.IsActive {
		return Cart{}, fmt.Errorf("%w: package %s is not purchasable", ErrInvalidInput, packageID)
	}
	if periodNum != nil && !pkg.DataType.Daily() {
		return Cart{}, fmt.Errorf("%w: periodNum only applies to daily packages", ErrInvalidInput)
	}

	if idx := c.FindItem(packageID); idx >= 0 {
		c.Items[idx].Quantity += quantity
		if c.Items[idx].Quantity > maxQuantity {
			c.Items[idx].Quantity = maxQuantity
		}
		if periodNum != nil {
			c.Items[idx].PeriodNum = periodNum
		}
	} else {
		c.Items = append(c.Items, Item{
			PackageID:        pkg.ID,
			PackageCode:      pkg.Code,
			Name:             pkg.Name,
			DataType:         pkg.DataType,
			OriginalUsdCents: pkg.PriceUsdCents,
			OriginalIdr:      pkg.PriceIdr,
			Quantity:         quantity,
			PeriodNum:        periodNum,
		})
	}
	return s.save(ctx, c)
}

// UpdateItem replaces a line's quantity and period count. Quantity zero
// removes the line.
func (s *Service) UpdateItem(ctx context.Context, cartID, packageID string, quantity int, periodNum *int) (Cart, error) {
	if quantity < 0 || quantity > maxQuantity {
		return Cart{}, fmt.Errorf("%w: quantity %d", ErrInvalidInput, quantity)
	}
	if periodNum != nil && (*periodNum < 1 || *periodNum > maxPeriodNum) {
		return Cart{}, fmt.Errorf("%w: periodNum %d", ErrInvalidInput, *periodNum)
	}

	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	idx := c.FindItem(packageID)
	if idx < 0 {
		return Cart{}, ErrItemNotFound
	}
	if quantity == 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return s.save(ctx, c)
	}
	if periodNum != nil && !c.Items[idx].DataType.Daily() {
		return Cart{}, fmt.Errorf("%w: periodNum only applies to daily packages", ErrInvalidInput)
	}
	c.Items[idx].Quantity = quantity
	if periodNum != nil {
		c.Items[idx].PeriodNum = periodNum
	}
	return s.save(ctx, c)
}

func (s *Service) RemoveItem(ctx context.Context, cartID, packageID string) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	idx := c.FindItem(packageID)
	if idx < 0 {
		return Cart{}, ErrItemNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return s.save(ctx, c)
}

// SetCurrency switches the cart's display currency. A cached coupon that is
// not valid under the new currency is stripped rather than silently zeroed;
// the second return reports whether that happened so the storefront can warn.
func (s *Service) SetCurrency(ctx context.Context, cartID string, cur currency.Code) (Cart, bool, error) {
	if !cur.Valid() {
		return Cart{}, false, fmt.Errorf("%w: currency %q", ErrInvalidInput, cur)
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, false, err
	}
	c.Currency = cur
	couponRemoved := false
	if c.Coupon != nil && !c.Coupon.ValidForCurrency(cur) {
		s.Logger.Info().
			Str("cart_id", cartID).
			Str("code", c.Coupon.Code).
			Str("currency", string(cur)).
			Msg("coupon stripped on currency switch")
		c.Coupon = nil
		couponRemoved = true
	}
	c, err = s.save(ctx, c)
	return c, couponRemoved, err
}

// ApplyCoupon validates a code against the cart's schedule-adjusted subtotal
// and caches the accepted snapshot. A failed validation leaves any previously
// applied coupon untouched.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) (Cart, Totals, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, Totals{}, err
	}
	now := s.Now()
	schedules := s.Schedules.Active(ctx, now)
	base := CalculateTotals(Cart{ID: c.ID, Currency: c.Currency, Items: c.Items}, schedules, now)

	applied, _, err := s.Coupons.Apply(ctx, code, c.Currency, base.Subtotal)
	if err != nil {
		return Cart{}, Totals{}, err
	}
	c.Coupon = &applied
	c, err = s.save(ctx, c)
	if err != nil {
		return Cart{}, Totals{}, err
	}
	return c, CalculateTotals(c, schedules, now), nil
}

func (s *Service) RemoveCoupon(ctx context.Context, cartID string) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c.Coupon = nil
	return s.save(ctx, c)
}

// Totals computes the cart against the live schedule set.
func (s *Service) Totals(ctx context.Context, cartID string) (Totals, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Totals{}, err
	}
	now := s.Now()
	t := CalculateTotals(c, s.Schedules.Active(ctx, now), now)
	if obs.CartTotalsTotal != nil {
		obs.CartTotalsTotal.WithLabelValues(string(c.Currency)).Inc()
	}
	return t, nil
}

func (s *Service) save(ctx context.Context, c Cart) (Cart, error) {
	c.UpdatedAt = s.Now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}
