package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
port = 5433
user = "booking"
password = "secret"
dbname = "spaces"

[storage]
driver = "memory"

[booking]
max_active_cash_bookings = 3

[[refund_policy.tiers]]
min_hours_before = 48
percentage = 100

[[refund_policy.tiers]]
min_hours_before = 6
percentage = 30
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Booking.MaxActiveCashBookings)
	assert.Equal(t, 5, cfg.Booking.CancellationCheckMinBookings)
	assert.Equal(t, 50.0, cfg.Booking.MaxCancellationRatePercent)
	assert.Equal(t, 9, cfg.Booking.DayStartHour)
	assert.Equal(t, 24, cfg.Booking.DayEndHour)
	assert.Len(t, cfg.RefundPolicy.Tiers, 2)
	assert.Equal(t, "host=db port=5433 user=booking password=secret dbname=spaces sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "override-host")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("JOBS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "override-host", cfg.Database.Host)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.True(t, cfg.Jobs.Enabled)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRefundTiers(), cfg.RefundPolicy.Tiers)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
}

func TestLoad_InvalidToml(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\nhttp_port ="))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate_RejectsIncreasingTiers(t *testing.T) {
	cfg := Default()
	cfg.RefundPolicy.Tiers = []RefundTier{
		{MinHoursBefore: 24, Percentage: 50},
		{MinHoursBefore: 12, Percentage: 80},
	}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestValidate_RejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "mongo"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestValidate_NotificationsNeedURL(t *testing.T) {
	cfg := Default()
	cfg.Notifications.Enabled = true
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
