package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 600*time.Second, cfg.Auction.Duration)
	assert.Equal(t, time.Second, cfg.Auction.TickInterval)
	assert.Equal(t, int64(10), cfg.Auction.MinIncrement)
	assert.Equal(t, "INR", cfg.Auction.Currency)
	assert.True(t, cfg.Auction.BidsWhilePaused)
	assert.False(t, cfg.Auction.StrictSettlement)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("JPL_SERVER_PORT", "9000")
	t.Setenv("JPL_AUCTION_DURATION", "120s")
	t.Setenv("JPL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Auction.Duration)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "database.url",
		},
		{
			name: "production without jwt secret",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.Security.JWTSecret = ""
			},
			wantErr: "jwt_secret",
		},
		{
			name:    "zero duration",
			mutate:  func(c *Config) { c.Auction.Duration = 0 },
			wantErr: "auction.duration",
		},
		{
			name:    "zero increment",
			mutate:  func(c *Config) { c.Auction.MinIncrement = 0 },
			wantErr: "min_increment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			cfg.Database.URL = "postgres://localhost:5432/jpl"
			cfg.Security.JWTSecret = "secret"
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
