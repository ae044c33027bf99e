package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`

	Auction  AuctionConfig  `koanf:"auction"`
	Security SecurityConfig `koanf:"security"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MinIdleConns    int           `koanf:"min_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string `koanf:"url"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AuctionConfig carries the league rules applied to every cycle
type AuctionConfig struct {
	// Duration is the countdown armed at start
	Duration time.Duration `koanf:"duration"`
	// TickInterval is the countdown broadcast resolution
	TickInterval time.Duration `koanf:"tick_interval"`
	// MinIncrement is the required step over the current highest bid,
	// in whole currency units
	MinIncrement int64 `koanf:"min_increment"`
	// Currency is the ISO code all amounts are denominated in
	Currency string `koanf:"currency"`
	// BidsWhilePaused keeps the bid window open while the clock is frozen
	BidsWhilePaused bool `koanf:"bids_while_paused"`
	// StrictSettlement re-checks the winner's purse before the sale commits
	StrictSettlement bool `koanf:"strict_settlement"`
}

type SecurityConfig struct {
	JWTSecret   string        `koanf:"jwt_secret"`
	TokenExpiry time.Duration `koanf:"token_expiry"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MinIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			DB: 0,
		},
		Auction: AuctionConfig{
			Duration:        600 * time.Second,
			TickInterval:    time.Second,
			MinIncrement:    10,
			Currency:        "INR",
			BidsWhilePaused: true,
		},
		Security: SecurityConfig{
			TokenExpiry: 24 * time.Hour,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Config file is optional
	_ = k.Load(file.Provider("configs/config.yaml"), yaml.Parser())

	if err := k.Load(env.Provider("JPL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "JPL_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Security.JWTSecret == "" && c.Environment == "production" {
		return fmt.Errorf("security.jwt_secret is required in production")
	}
	if c.Auction.Duration <= 0 {
		return fmt.Errorf("auction.duration must be positive")
	}
	if c.Auction.MinIncrement <= 0 {
		return fmt.Errorf("auction.min_increment must be positive")
	}
	return nil
}
