package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamsim/backend-store/internal/currency"
)

// Store reads discount codes owned by the admin system.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const getByCodeSQL = `
SELECT id, code, discount_type, discount_value, discount_value_idr,
       currency_code, max_discount_cents, max_discount_idr,
       min_purchase_cents, min_purchase_idr,
       starts_at, expires_at, is_active, current_uses, max_uses
FROM discount_codes
WHERE code = $1
`

// GetByCode fetches one code record. Codes are stored uppercase; the caller
// normalizes input before lookup. Missing rows map to ErrNotFound so the
// service never distinguishes "no row" from "inactive row" to clients.
func (s *Store) GetByCode(ctx context.Context, code string) (Record, error) {
	row := s.Pool.QueryRow(ctx, getByCodeSQL, code)

	var (
		r       Record
		curCode *string
	)
	err := row.Scan(
		&r.ID, &r.Code, &r.DiscountType, &r.DiscountValue, &r.DiscountValueIdr,
		&curCode, &r.MaxDiscountCents, &r.MaxDiscountIdr,
		&r.MinPurchaseCents, &r.MinPurchaseIdr,
		&r.StartsAt, &r.ExpiresAt, &r.IsActive, &r.CurrentUses, &r.MaxUses,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("coupon get %q: %w", code, err)
	}
	if curCode != nil {
		parsed, perr := currency.Parse(*curCode)
		if perr == nil {
			r.CurrencyCode = &parsed
		}
	}
	return r, nil
}

// NormalizeCode uppercases and trims user input before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
