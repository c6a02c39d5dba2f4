package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MemoryModeWithDefaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
mode = "memory"

[clinic]
timezone = "Asia/Manila"
default_capacity = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Mode)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 2, cfg.Clinic.DefaultCapacity)
	assert.Equal(t, 7, cfg.Clinic.BookingWindowDays)
	assert.Equal(t, "none", cfg.Refund.FeePolicy)

	loc, err := cfg.Clinic.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Manila", loc.String())
}

func TestLoad_PostgresSecretsFromEnv(t *testing.T) {
	t.Setenv(EnvDBPassword, "s3cret")
	t.Setenv(EnvNotificationToken, "token-1")

	path := writeConfig(t, `
[storage]
mode = "postgres"

[database]
host = "db"
user = "clinic"
dbname = "clinic"

[patient_service]
url = "http://patients:8080"

[notification_service]
url = "http://notify:8080"

[refund]
fee_policy = "tiered"

[[refund.tiers]]
within_hours = 6
rate = 0.5

[[refund.tiers]]
within_hours = 24
rate = 0.25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "token-1", cfg.NotificationService.Token)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
	require.Len(t, cfg.Refund.Tiers, 2)
	assert.Equal(t, 0.25, cfg.Refund.Tiers[1].Rate)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "postgres without host",
			body: "[storage]\nmode = \"postgres\"\n",
		},
		{
			name: "unknown storage mode",
			body: "[storage]\nmode = \"redis\"\n",
		},
		{
			name: "tiered without tiers",
			body: "[storage]\nmode = \"memory\"\n[refund]\nfee_policy = \"tiered\"\n",
		},
		{
			name: "rate out of range",
			body: "[storage]\nmode = \"memory\"\n[refund]\nfee_policy = \"proportional\"\nrate = 1.5\n",
		},
		{
			name: "unknown timezone",
			body: "[storage]\nmode = \"memory\"\n[clinic]\ntimezone = \"Mars/Olympus\"\n",
		},
		{
			name: "reminders without schedule",
			body: "[storage]\nmode = \"memory\"\n[reminders]\nenabled = true\nschedule = \"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}
