package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DSN", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BOOKING_DURATIONS", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("SEED_FILE", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []int{30, 60, 90}, cfg.Booking.AllowedDurations)
	assert.Equal(t, 30, cfg.Booking.MaxSearchLength)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.ErrorContains(t, err, "TIMEZONE")
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE", "postgres")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_DurationsFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOOKING_DURATIONS", "45, 120")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int{45, 120}, cfg.Booking.AllowedDurations)

	t.Setenv("BOOKING_DURATIONS", "any")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Booking.AllowedDurations)
	assert.True(t, cfg.Booking.DurationAllowed(17))
}

func TestLoad_PolicyFile(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "booking:\n  allowed_durations: [20, 40]\n  max_search_length: 12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40}, cfg.Booking.AllowedDurations)
	assert.Equal(t, 12, cfg.Booking.MaxSearchLength)
	assert.Equal(t, 500, cfg.Booking.MaxMessageLength, "unset keys keep defaults")
}

func TestLoad_RejectsNonPositiveDuration(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOOKING_DURATIONS", "30,-5")

	_, err := Load()
	assert.Error(t, err)
}

func TestBookingPolicy_DurationAllowed(t *testing.T) {
	p := DefaultBookingPolicy()

	assert.True(t, p.DurationAllowed(60))
	assert.False(t, p.DurationAllowed(45))
	assert.False(t, p.DurationAllowed(0))
	assert.False(t, p.DurationAllowed(-30))
}
