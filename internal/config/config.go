package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port             int    `env:"PORT" envDefault:"8080"`
	DatabaseURL      string `env:"DATABASE_URL,required"`
	RedisURL         string `env:"REDIS_URL,required"`
	TenantSchema     string `env:"TENANT_SCHEMA" envDefault:"public"`
	StationTokenHash string `env:"STATION_TOKEN_HASH"`
	QRPixelWidth     int    `env:"QR_PIXEL_WIDTH" envDefault:"300"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	SeedDemoData     bool   `env:"SEED_DEMO_DATA" envDefault:"false"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.StationTokenHash != "" {
		if !strings.HasPrefix(c.StationTokenHash, "$2a$") &&
			!strings.HasPrefix(c.StationTokenHash, "$2b$") &&
			!strings.HasPrefix(c.StationTokenHash, "$2y$") {
			return fmt.Errorf("STATION_TOKEN_HASH must be a bcrypt hash (generate with: go run scripts/hash-token.go <token>)")
		}
	}

	if c.QRPixelWidth <= 0 {
		return fmt.Errorf("QR_PIXEL_WIDTH must be positive")
	}

	if strings.Contains(c.TenantSchema, ";") || strings.Contains(c.TenantSchema, " ") {
		return fmt.Errorf("TENANT_SCHEMA must be a bare schema name")
	}

	if isProduction {
		if c.StationTokenHash == "" {
			return fmt.Errorf("STATION_TOKEN_HASH is required in production")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if c.SeedDemoData {
			log.Warn().Msg("SEED_DEMO_DATA enabled in production: demo passes will be created at startup")
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
