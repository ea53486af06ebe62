// Package config reads FOODHUB_* settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/erazemk/foodhub/internal/store"
)

const envPrefix = "FOODHUB"

// Environment variable names.
const (
	EnvDB              = "FOODHUB_DB"
	EnvAddr            = "FOODHUB_ADDR"
	EnvTokenSecret     = "FOODHUB_TOKEN_SECRET"
	EnvLogFile         = "FOODHUB_LOG_FILE"
	EnvSeedMinQty      = "FOODHUB_SEED_MIN_QTY"
	EnvSeedMaxQty      = "FOODHUB_SEED_MAX_QTY"
	EnvThresholdLow    = "FOODHUB_THRESHOLD_LOW"
	EnvThresholdMedium = "FOODHUB_THRESHOLD_MEDIUM"
)

type Config struct {
	DB      string `envconfig:"FOODHUB_DB" default:"foodhub.sqlite3"`
	Addr    string `envconfig:"FOODHUB_ADDR" default:":8080"`
	LogFile string `envconfig:"FOODHUB_LOG_FILE"`

	// TokenSecret signs pickup tokens. When empty a secret is generated and
	// kept in the database.
	TokenSecret string `envconfig:"FOODHUB_TOKEN_SECRET"`

	Seed SeedConfig
}

type SeedConfig struct {
	MinQuantity     int `envconfig:"FOODHUB_SEED_MIN_QTY" default:"2"`
	MaxQuantity     int `envconfig:"FOODHUB_SEED_MAX_QTY" default:"26"`
	ThresholdLow    int `envconfig:"FOODHUB_THRESHOLD_LOW" default:"5"`
	ThresholdMedium int `envconfig:"FOODHUB_THRESHOLD_MEDIUM" default:"15"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Seed.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s SeedConfig) validate() error {
	if s.MinQuantity < 0 || s.MaxQuantity < s.MinQuantity {
		return fmt.Errorf("%s/%s must satisfy 0 <= min <= max, got %d/%d",
			EnvSeedMinQty, EnvSeedMaxQty, s.MinQuantity, s.MaxQuantity)
	}
	if s.ThresholdLow < 0 || s.ThresholdMedium < s.ThresholdLow {
		return fmt.Errorf("%s/%s must satisfy 0 <= low <= medium, got %d/%d",
			EnvThresholdLow, EnvThresholdMedium, s.ThresholdLow, s.ThresholdMedium)
	}
	return nil
}

// Options converts the seed settings for the store.
func (s SeedConfig) Options() store.SeedOptions {
	opts := store.DefaultSeedOptions()
	opts.MinQuantity = s.MinQuantity
	opts.MaxQuantity = s.MaxQuantity
	opts.ThresholdLow = s.ThresholdLow
	opts.ThresholdMedium = s.ThresholdMedium
	return opts
}
