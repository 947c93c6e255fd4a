// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Addr           string        `validate:"required"`
	DatabaseDSN    string        `validate:"required_if=StoreDriver postgres"`
	StoreDriver    string        `validate:"oneof=postgres memory"`
	DBTimeout      time.Duration `validate:"gt=0"`
	RateLimitRPS   float64       `validate:"gt=0"`
	RateLimitBurst int           `validate:"gte=1"`
	AllowedOrigins []string      `validate:"dive,url"`
	EnableHSTS     bool
	TrustProxy     bool
}

var validate = validator.New()

// LoadEnvFiles reads .env and .env.local without overriding variables
// already present in the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds a Config from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		DatabaseDSN:    os.Getenv("DB_DSN"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		EnableHSTS:     os.Getenv("ENABLE_HSTS") == "true",
		TrustProxy:     os.Getenv("TRUST_PROXY") == "true",
	}

	var err error
	if cfg.DBTimeout, err = time.ParseDuration(getEnv("DB_TIMEOUT", "3s")); err != nil {
		return Config{}, fmt.Errorf("DB_TIMEOUT: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "40")); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// RedactDSN hides the credentials of a connection string.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
