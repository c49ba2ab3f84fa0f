package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/obs"
)

// RecordGetter is the lookup surface the service needs; *Store satisfies it.
type RecordGetter interface {
	GetByCode(ctx context.Context, code string) (Record, error)
}

// Service validates coupon codes against a cart subtotal. Lookups run under a
// bounded timeout so a slow admin database degrades to a retryable error
// instead of hanging checkout.
type Service struct {
	Store   RecordGetter
	Timeout time.Duration
	Logger  zerolog.Logger
	Now     func() time.Time
}

func NewService(store RecordGetter, timeout time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		Store:   store,
		Timeout: timeout,
		Logger:  logger,
		Now:     time.Now,
	}
}

// Apply resolves a user-entered code and checks it against the cart's
// currency and schedule-adjusted subtotal. On success it returns the snapshot
// to cache in the cart together with the discount amount in the cart
// currency's integer units.
func (s *Service) Apply(ctx context.Context, rawCode string, cur currency.Code, subtotal int64) (Applied, int64, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		s.countApply("invalid")
		return Applied{}, 0, ErrNotFound
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	rec, err := s.Store.GetByCode(lookupCtx, code)
	if obs.CouponLookupLatency != nil {
		obs.CouponLookupLatency.Observe(obs.DurationMillis(time.Since(start)))
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(lookupCtx.Err(), context.DeadlineExceeded) {
			s.Logger.Warn().Str("code", code).Msg("coupon lookup timed out")
			s.countApply("timeout")
			return Applied{}, 0, ErrLookupTimeout
		}
		if errors.Is(err, ErrNotFound) {
			s.countApply("not_found")
			return Applied{}, 0, ErrNotFound
		}
		s.Logger.Error().Err(err).Str("code", code).Msg("coupon lookup failed")
		s.countApply("error")
		return Applied{}, 0, err
	}

	if err := rec.Validate(cur, subtotal, s.Now()); err != nil {
		s.countApply("rejected")
		return Applied{}, 0, err
	}

	s.countApply("accepted")
	return rec.Applied, rec.Applied.Discount(cur, subtotal), nil
}

func (s *Service) countApply(result string) {
	if obs.CouponApplyTotal != nil {
		obs.CouponApplyTotal.WithLabelValues(result).Inc()
	}
}
