package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a cart ID is unknown or has expired.
var ErrNotFound = errors.New("cart not found")

// Store persists carts in Redis as JSON blobs. Each write refreshes the TTL
// so an active cart never expires mid-session.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func NewStore(r *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{R: r, TTL: ttl}
}

func key(id string) string {
	return "cart:" + id
}

func (s *Store) Get(ctx context.Context, id string) (Cart, error) {
	raw, err := s.R.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, ErrNotFound
	}
	if err != nil {
		return Cart{}, fmt.Errorf("cart get %s: %w", id, err)
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		// Corrupt payloads are treated as expired rather than surfaced.
		return Cart{}, ErrNotFound
	}
	return c, nil
}

func (s *Store) Save(ctx context.Context, c Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart marshal %s: %w", c.ID, err)
	}
	if err := s.R.Set(ctx, key(c.ID), raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("cart save %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.R.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cart delete %s: %w", id, err)
	}
	return nil
}
