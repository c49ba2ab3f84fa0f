package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/store",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, 2*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.ScheduleSnapshotTTL)
	assert.Equal(t, 5*time.Minute, cfg.ScheduleRefreshInterval)
	assert.Equal(t, 168*time.Hour, cfg.CartTTL)
	assert.Equal(t, 10*time.Second, cfg.CouponLookupTimeout)
	assert.Equal(t, 10, cfg.CouponApplyRateMax)
	assert.Equal(t, int64(1<<20), cfg.BodyMaxBytes)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":          "postgres://localhost/store",
		"REDIS_URL":             "redis://localhost:6379/0",
		"PORT":                  "9090",
		"COUPON_LOOKUP_TIMEOUT": "3s",
		"CORS_ALLOWED_ORIGINS":  "https://store.example.com, https://admin.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr())
	assert.Equal(t, 3*time.Second, cfg.CouponLookupTimeout)
	assert.Equal(t, []string{"https://store.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}
