package catalog

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/common"
	"github.com/roamsim/backend-store/internal/currency"
	"github.com/roamsim/backend-store/internal/schedule"
)

// ErrInvalidInput is returned when listing parameters cannot be parsed.
var ErrInvalidInput = errors.New("invalid input")

// Getter abstracts the package reads other services need (cart snapshotting,
// checkout validation).
type Getter interface {
	Get(ctx context.Context, id string) (Package, error)
}

// PackageStore abstracts the Postgres reads behind the service.
type PackageStore interface {
	Getter
	List(ctx context.Context, p ListParams) ([]Package, int64, error)
}

// PricedPackage decorates a package with its resolved effective price and the
// display strings for the requested currency.
type PricedPackage struct {
	Package
	Pricing      schedule.EffectivePrice `json:"pricing"`
	DisplayPrice string                  `json:"displayPrice"`
	DisplayWas   string                  `json:"displayWas,omitempty"`
}

// ListResult carries one listing page.
type ListResult struct {
	Items []PricedPackage
	Total int64
	Page  int
	Limit int
}

// Service exposes the package catalog with schedule-aware pricing.
type Service struct {
	Store        PackageStore
	Cache        *Cache
	Schedules    schedule.Source
	Logger       zerolog.Logger
	Now          func() time.Time
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ParseListParams validates query parameters for the listing endpoint.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	p := ListParams{
		CountryCode: strings.ToUpper(strings.TrimSpace(values.Get("country"))),
		Page:        common.AtoiDefault(values.Get("page"), s.DefaultPage),
		Limit:       common.AtoiDefault(values.Get("limit"), s.DefaultLimit),
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = s.DefaultLimit
	}
	if s.MaxLimit > 0 && p.Limit > s.MaxLimit {
		p.Limit = s.MaxLimit
	}
	if t := strings.TrimSpace(values.Get("type")); t != "" {
		dt := DataType(t)
		switch dt {
		case DataTypeFixed, DataTypeDailySpeedCap, DataTypeDailyCutoff, DataTypeDailyUnlimited:
			p.DataType = dt
		default:
			return ListParams{}, ErrInvalidInput
		}
	}
	return p, nil
}

// List returns one page of packages decorated with effective prices. Raw rows
// are cached; pricing is resolved per request against the current schedule
// set so promotions appear without invalidating the listing cache.
func (s *Service) List(ctx context.Context, p ListParams, cur currency.Code) (ListResult, error) {
	type cached struct {
		Items []Package `json:"items"`
		Total int64     `json:"total"`
	}

	var raw cached
	key := ListKey(p)
	hit, err := s.Cache.GetJSON(ctx, key, &raw)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("catalog cache read failed")
	}
	if !hit {
		items, total, err := s.Store.List(ctx, p)
		if err != nil {
			return ListResult{}, err
		}
		raw = cached{Items: items, Total: total}
		if err := s.Cache.SetJSON(ctx, key, raw); err != nil {
			s.Logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}

	now := s.now()
	schedules := s.Schedules.Active(ctx, now)
	out := make([]PricedPackage, 0, len(raw.Items))
	for _, pkg := range raw.Items {
		out = append(out, s.price(pkg, schedules, cur, now))
	}
	return ListResult{Items: out, Total: raw.Total, Page: p.Page, Limit: p.Limit}, nil
}

// GetPriced returns one package with its effective price resolved.
func (s *Service) GetPriced(ctx context.Context, id string, cur currency.Code) (PricedPackage, error) {
	pkg, err := s.Store.Get(ctx, id)
	if err != nil {
		return PricedPackage{}, err
	}
	now := s.now()
	return s.price(pkg, s.Schedules.Active(ctx, now), cur, now), nil
}

func (s *Service) price(pkg Package, schedules []schedule.Schedule, cur currency.Code, now time.Time) PricedPackage {
	eff := schedule.Resolve(pkg.ID, pkg.PriceUsdCents, pkg.PriceIdr, schedules, now)
	pp := PricedPackage{Package: pkg, Pricing: eff}
	switch cur {
	case currency.IDR:
		pp.DisplayPrice = currency.FormatEsimAccess(eff.FinalIdr, currency.IDR)
		if eff.HasDiscount {
			pp.DisplayWas = currency.FormatEsimAccess(eff.OriginalIdr, currency.IDR)
		}
	default:
		pp.DisplayPrice = currency.FormatEsimAccess(eff.FinalUsdCents, currency.USD)
		if eff.HasDiscount {
			pp.DisplayWas = currency.FormatEsimAccess(eff.OriginalUsdCents, currency.USD)
		}
	}
	return pp
}
