package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Seeds a development database with a handful of eSIM packages, one running
// promotion, and a few discount codes. Idempotent: rows are upserted by code.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	seedPackages(ctx, pool)
	seedSchedules(ctx, pool)
	seedDiscountCodes(ctx, pool)

	log.Println("seeding completed")
}

func seedPackages(ctx context.Context, pool *pgxpool.Pool) {
	rows := [][]any{
		// code, name, country, region, data_type, mb, duration, unit, usd(catalog-encoded), idr
		{"SG-5GB-30D", "Singapore 5GB / 30 Days", "SG", "Asia", "fixed", 5120, 30, "days", int64(100000), int64(165000)},
		{"JP-10GB-30D", "Japan 10GB / 30 Days", "JP", "Asia", "fixed", 10240, 30, "days", int64(180000), int64(295000)},
		{"JP-DAILY-U", "Japan Daily Unlimited", "JP", "Asia", "daily_unlimited", 0, 1, "days", int64(5000), int64(8200)},
		{"EU-20GB-30D", "Europe 20GB / 30 Days", "", "Europe", "fixed", 20480, 30, "days", int64(250000), int64(410000)},
		{"US-DAILY-2GB", "USA Daily 2GB Speed Cap", "US", "Americas", "daily_speed_cap", 2048, 1, "days", int64(6500), int64(10700)},
	}
	for _, r := range rows {
		_, err := pool.Exec(ctx, `
			INSERT INTO packages (id, code, name, country_code, region, data_type, data_amount_mb,
			                      duration, duration_unit, price_usd_cents, price_idr, is_active, created_at)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, now())
			ON CONFLICT (code) DO UPDATE SET
				name = EXCLUDED.name,
				price_usd_cents = EXCLUDED.price_usd_cents,
				price_idr = EXCLUDED.price_idr,
				is_active = TRUE
		`, r...)
		if err != nil {
			log.Fatalf("seed package %v: %v", r[0], err)
		}
	}
	log.Printf("seeded %d packages", len(rows))
}

func seedSchedules(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
		INSERT INTO price_schedules (id, package_id, name, schedule_type, discount_type, discount_value,
		                             starts_at, ends_at, priority, is_active, badge_text, badge_color, created_at)
		SELECT gen_random_uuid(), NULL, 'Launch Sale', 'discount', 'percentage', 15,
		       now() - interval '1 day', now() + interval '30 days', 10, TRUE, 'SALE', '#e53935', now()
		WHERE NOT EXISTS (SELECT 1 FROM price_schedules WHERE name = 'Launch Sale')
	`)
	if err != nil {
		log.Fatalf("seed schedules: %v", err)
	}
	log.Println("seeded promotional schedule")
}

func seedDiscountCodes(ctx context.Context, pool *pgxpool.Pool) {
	rows := [][]any{
		// code, type, value(usd catalog-encoded or percent), value_idr, currency, min_cents, max_cents
		{"WELCOME10", "percentage", 10.0, nil, nil, nil, int64(50000)},
		{"FLAT5USD", "fixed", 50000.0, nil, "USD", int64(100000), nil},
		{"HEMAT25K", "fixed", 0.0, int64(25000), "IDR", nil, nil},
	}
	for _, r := range rows {
		_, err := pool.Exec(ctx, `
			INSERT INTO discount_codes (id, code, discount_type, discount_value, discount_value_idr,
			                            currency_code, min_purchase_cents, max_discount_cents,
			                            is_active, current_uses, created_at)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, TRUE, 0, now())
			ON CONFLICT (code) DO UPDATE SET
				discount_value = EXCLUDED.discount_value,
				discount_value_idr = EXCLUDED.discount_value_idr,
				is_active = TRUE
		`, r...)
		if err != nil {
			log.Fatalf("seed discount code %v: %v", r[0], err)
		}
	}
	log.Printf("seeded %d discount codes", len(rows))
}
