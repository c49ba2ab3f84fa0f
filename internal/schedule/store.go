package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads promotional schedules from the managed Postgres instance. The
// table is owned by the admin system; this service never writes to it.
type Store struct {
	Pool *pgxpool.Pool
}

const listActiveSQL = `
SELECT id, package_id, name, schedule_type, discount_type, discount_value,
       override_price_usd_cents, override_price_idr,
       starts_at, ends_at, priority, is_active,
       badge_text, badge_color, created_at
FROM price_schedules
WHERE is_active = TRUE
  AND starts_at <= $1
  AND ends_at >= $1
ORDER BY priority DESC, created_at DESC, id DESC`

// ListActive returns schedules whose validity window contains the instant,
// ordered by descending priority so the resolver's tie-break matches the
// storage ordering.
func (s Store) ListActive(ctx context.Context, now time.Time) ([]Schedule, error) {
	if s.Pool == nil {
		return nil, fmt.Errorf("schedule store not configured")
	}
	rows, err := s.Pool.Query(ctx, listActiveSQL, now)
	if err != nil {
		return nil, fmt.Errorf("query active schedules: %w", err)
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		var (
			sc           Schedule
			discountType *string
			discountVal  *float64
		)
		if err := rows.Scan(
			&sc.ID, &sc.PackageID, &sc.Name, &sc.Type, &discountType, &discountVal,
			&sc.OverrideUsdCents, &sc.OverrideIdr,
			&sc.StartsAt, &sc.EndsAt, &sc.Priority, &sc.IsActive,
			&sc.BadgeText, &sc.BadgeColor, &sc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		if discountType != nil {
			sc.DiscountType = DiscountType(*discountType)
		}
		if discountVal != nil {
			sc.DiscountValue = *discountVal
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return out, nil
}
