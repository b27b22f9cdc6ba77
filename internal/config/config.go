// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"vitals/internal/domain"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds everything main needs to wire the process.
type Config struct {
	Addr   string
	WebDir string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	// Location is the zone local days are computed in.
	Location *time.Location

	// MaxWaterDelta is the largest magnitude accepted for one water event, in liters.
	MaxWaterDelta float64

	DigestEnabled bool
	DigestAt      string // HH:MM, local

	ShutdownTimeout time.Duration
}

// Load reads configuration from a .env file (if any) and the environment.
// Non-empty overrides, keyed by variable name, take precedence.
func Load(overrides map[string]string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}
	return FromEnv(func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return os.Getenv(key)
	})
}

// FromEnv builds a Config from getenv, applying defaults and validation.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Addr:        get("ADDR", ":8080"),
		WebDir:      get("WEB_DIR", "web"),
		DBDriver:    get("DB_DRIVER", DriverSQLite),
		DBPath:      get("DB_PATH", "vitals.sqlite"),
		DatabaseURL: getenv("DATABASE_URL"),
		DigestAt:    get("DIGEST_AT", "00:05"),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be sqlite, postgres or memory", cfg.DBDriver)
	}

	loc, err := time.LoadLocation(get("TZ_NAME", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME: %w", err)
	}
	cfg.Location = loc

	maxDelta, err := strconv.ParseFloat(get("WATER_MAX_DELTA_LITERS", strconv.FormatFloat(domain.DefaultMaxWaterDelta, 'f', -1, 64)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WATER_MAX_DELTA_LITERS: %w", err)
	}
	if maxDelta <= 0 {
		return nil, fmt.Errorf("invalid WATER_MAX_DELTA_LITERS: must be > 0, got %g", maxDelta)
	}
	cfg.MaxWaterDelta = maxDelta

	cfg.DigestEnabled, err = strconv.ParseBool(get("DIGEST_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_ENABLED: %w", err)
	}
	if _, err := time.Parse("15:04", cfg.DigestAt); err != nil {
		return nil, fmt.Errorf("invalid DIGEST_AT %q: want HH:MM", cfg.DigestAt)
	}

	cfg.ShutdownTimeout, err = time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Calendar returns the day-boundary helper for the configured zone.
func (c *Config) Calendar() domain.Calendar {
	return domain.NewCalendar(c.Location)
}
