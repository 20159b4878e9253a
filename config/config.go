// Package config loads daemon configuration from BR_* environment
// variables, following the same envOr/envIntOr/envBoolOr/envSliceOr
// idiom this codebase has always used.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds daemon configuration (spec §6's environment variables).
type Config struct {
	Instance string // BR_INSTANCE, default "default"
	Port     int    // BR_PORT, 0 means "allocate"

	Headless       bool
	ViewportWidth  int
	ViewportHeight int

	AdBlock      bool
	AdBlockBase  string // none|adsandtrackers|full|ads
	AdBlockLists []string

	HumanLike bool

	Log LogConfig
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from BR_* environment variables with sane
// defaults. brd binds no flags of its own; `br start` passes its flags to
// brd as BR_* variables, which override inherited values of the same name.
func Load() *Config {
	return &Config{
		Instance: envOr("BR_INSTANCE", "default"),
		Port:     envIntOr("BR_PORT", 0),

		Headless:       envBoolOr("BR_HEADLESS", true),
		ViewportWidth:  envIntOr("BR_VIEWPORT_WIDTH", 1280),
		ViewportHeight: envIntOr("BR_VIEWPORT_HEIGHT", 720),

		AdBlock:      envBoolOr("BR_ADBLOCK", false),
		AdBlockBase:  envOr("BR_ADBLOCK_BASE", "adsandtrackers"),
		AdBlockLists: envSliceOr("BR_ADBLOCK_LISTS", nil),

		HumanLike: envBoolOr("BR_HUMANLIKE", false),

		Log: LogConfig{
			Level:  envOr("BR_LOG_LEVEL", "info"),
			Format: envOr("BR_LOG_FORMAT", "json"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
