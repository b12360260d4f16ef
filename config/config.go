// Package config loads the auction settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the settings of one auction process.
type Config struct {
	Duration   time.Duration `env:"AUCTION_DURATION" envDefault:"10m"`
	Store      string        `env:"AUCTION_STORE" envDefault:"sqlite"`
	DBPath     string        `env:"AUCTION_DB_PATH" envDefault:"auction.db"`
	Currency   string        `env:"AUCTION_CURRENCY" envDefault:"£"`
	FrameRate  int           `env:"AUCTION_FRAME_RATE" envDefault:"30"`
	ArchiveDir string        `env:"AUCTION_ARCHIVE_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values the auction cannot run with.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("AUCTION_DURATION must be positive, got %s", c.Duration)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("AUCTION_FRAME_RATE must be positive, got %d", c.FrameRate)
	}
	switch c.Store {
	case StoreSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("AUCTION_DB_PATH is required for the %s store", StoreSQLite)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("AUCTION_STORE must be %q or %q, got %q", StoreSQLite, StoreMemory, c.Store)
	}
	return nil
}

// FrameInterval is the time between two frames of the presentation loop.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
