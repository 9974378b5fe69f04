package config_test

import (
	"os"
	"testing"

	"condo/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_ENV", "SERVER_PORT", "CACHE_TTL", "BOOKING_HOLD_EXPIRY_MINUTES", "BOOKING_MIN_DOWNPAYMENT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, 60, cfg.Booking.HoldExpiryMinutes)
	assert.InDelta(t, 0.5, cfg.Booking.MinDownpayment, 1e-9)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_ENV", "staging")
	t.Setenv("CALENDAR_WORKERS", "8")
	t.Setenv("APP_CORS_ALLOWED_ORIGINS", "https://condo.test,https://admin.condo.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Calendar.Workers)
	assert.Equal(t, []string{"https://condo.test", "https://admin.condo.test"}, cfg.App.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "development without secrets", mutate: func(c *config.Config) { c.Server.Env = "development" }},
		{name: "production without secrets", mutate: func(c *config.Config) { c.Server.Env = "production" }, wantErr: true},
		{
			name: "production with secrets",
			mutate: func(c *config.Config) {
				c.Server.Env = "production"
				c.JWT.AccessSecret, c.JWT.RefreshSecret = "a", "r"
			},
		},
		{name: "downpayment above one", mutate: func(c *config.Config) { c.Booking.MinDownpayment = 1.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			tt.mutate(cfg)

			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
