package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamsim/backend-store/internal/currency"
)

// ErrNotFound is returned for unknown order IDs.
var ErrNotFound = errors.New("order not found")

// Order is a payment-provider order record. Unlike catalog prices, the USD
// amounts here are standard cents (100 units per dollar) as written by the
// payment provider; DisplayTotal and DisplaySubtotal are rendered with that
// encoding.
type Order struct {
	ID              string        `json:"id"`
	CartID          *string       `json:"cartId,omitempty"`
	Currency        currency.Code `json:"currency"`
	SubtotalCents   int64         `json:"subtotalCents"`
	DiscountCents   int64         `json:"discountCents"`
	TotalCents      int64         `json:"totalCents"`
	CouponCode      *string       `json:"couponCode,omitempty"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	DisplaySubtotal string        `json:"displaySubtotal"`
	DisplayTotal    string        `json:"displayTotal"`
}

// Store reads order records written by the payment flow.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const getSQL = `
SELECT id, cart_id, currency, subtotal_cents, discount_cents, total_cents,
       coupon_code, status, created_at
FROM orders
WHERE id = $1
`

func (s *Store) Get(ctx context.Context, id string) (Order, error) {
	row := s.Pool.QueryRow(ctx, getSQL, id)

	var (
		o   Order
		cur string
	)
	err := row.Scan(
		&o.ID, &o.CartID, &cur, &o.SubtotalCents, &o.DiscountCents, &o.TotalCents,
		&o.CouponCode, &o.Status, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("order get %s: %w", id, err)
	}
	o.Currency, err = currency.Parse(cur)
	if err != nil {
		return Order{}, fmt.Errorf("order %s: %w", id, err)
	}
	o.DisplaySubtotal = currency.Format(o.SubtotalCents, o.Currency, currency.EncodingPaddle)
	o.DisplayTotal = currency.Format(o.TotalCents, o.Currency, currency.EncodingPaddle)
	return o, nil
}
