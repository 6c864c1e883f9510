// Package config reads stategallery settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file that never overrides variables already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/gauthierbraillon/stategallery/internal/paginator"
	"github.com/gauthierbraillon/stategallery/internal/thumbnail"
	"github.com/gauthierbraillon/stategallery/internal/youtube"
)

const (
	envPrefix = "STATEGALLERY_"

	EnvFile          = envPrefix + "ENV_FILE"
	EnvVideosFile    = envPrefix + "VIDEOS_FILE"
	EnvThumbnailHost = envPrefix + "THUMBNAIL_HOST"
	EnvTierTimeout   = envPrefix + "TIER_TIMEOUT"
	EnvProbeRate     = envPrefix + "PROBE_RATE"
	EnvProbeBurst    = envPrefix + "PROBE_BURST"
	EnvPageSize      = envPrefix + "PAGE_SIZE"
	EnvPageStep      = envPrefix + "PAGE_STEP"
	EnvUpgrade       = envPrefix + "UPGRADE"
	EnvLogLevel      = envPrefix + "LOG_LEVEL"

	defaultEnvFile = ".env"
)

// Probe limits applied across all videos.
const (
	DefaultProbeRate  = 20.0
	DefaultProbeBurst = 6
)

// Config holds the effective settings.
type Config struct {
	VideosFile    string
	ThumbnailHost string
	TierTimeout   time.Duration
	// ProbeRate is thumbnail probes per second across all videos; 0 disables
	// the limit.
	ProbeRate  float64
	ProbeBurst int
	PageSize   int
	PageStep   int
	Upgrade    bool
	LogLevel   string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ThumbnailHost: youtube.DefaultThumbnailHost,
		TierTimeout:   thumbnail.DefaultTierTimeout,
		ProbeRate:     DefaultProbeRate,
		ProbeBurst:    DefaultProbeBurst,
		PageSize:      paginator.DefaultInitialSize,
		PageStep:      paginator.DefaultStep,
		Upgrade:       true,
		LogLevel:      "info",
	}
}

// Load seeds the environment from the .env file, if present, then reads
// every setting over the defaults.
func Load() (Config, error) {
	envFile := os.Getenv(EnvFile)
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	return FromEnv(os.Getenv)
}

// FromEnv reads settings through getenv over the defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	if v := getenv(EnvVideosFile); v != "" {
		cfg.VideosFile = v
	}
	if v := getenv(EnvThumbnailHost); v != "" {
		cfg.ThumbnailHost = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvTierTimeout); v != "" {
		if cfg.TierTimeout, err = time.ParseDuration(v); err != nil || cfg.TierTimeout <= 0 {
			return Config{}, invalid(EnvTierTimeout, v, "a positive duration such as 5s")
		}
	}
	if v := getenv(EnvProbeRate); v != "" {
		if cfg.ProbeRate, err = strconv.ParseFloat(v, 64); err != nil || cfg.ProbeRate < 0 {
			return Config{}, invalid(EnvProbeRate, v, "a non-negative number")
		}
	}
	if v := getenv(EnvProbeBurst); v != "" {
		if cfg.ProbeBurst, err = strconv.Atoi(v); err != nil || cfg.ProbeBurst < 1 {
			return Config{}, invalid(EnvProbeBurst, v, "a positive integer")
		}
	}
	if v := getenv(EnvPageSize); v != "" {
		if cfg.PageSize, err = strconv.Atoi(v); err != nil || cfg.PageSize < 1 {
			return Config{}, invalid(EnvPageSize, v, "a positive integer")
		}
	}
	if v := getenv(EnvPageStep); v != "" {
		if cfg.PageStep, err = strconv.Atoi(v); err != nil || cfg.PageStep < 1 {
			return Config{}, invalid(EnvPageStep, v, "a positive integer")
		}
	}
	if v := getenv(EnvUpgrade); v != "" {
		if cfg.Upgrade, err = strconv.ParseBool(v); err != nil {
			return Config{}, invalid(EnvUpgrade, v, "true or false")
		}
	}

	return cfg, nil
}

func invalid(name, value, want string) error {
	return fmt.Errorf("invalid %s %q: must be %s", name, value, want)
}
