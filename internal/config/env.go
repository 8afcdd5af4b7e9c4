package config

import (
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognised on top of the YAML configuration.
const (
	EnvSpeed       = "SCROLLER_SPEED"
	EnvSpawnGap    = "SCROLLER_SPAWN_GAP"
	EnvInclusive   = "SCROLLER_INCLUSIVE_REVEAL"
	EnvSeed        = "SCROLLER_SEED"
	EnvDBPath      = "SCROLLER_DB"
	EnvMetricsAddr = "SCROLLER_METRICS_ADDR"
	EnvLogLevel    = "SCROLLER_LOG_LEVEL"
)

// LoadEnv reads .env style files into the process environment. With no
// paths, ".env" is used. A missing file is returned as an error that
// callers may ignore.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt64 returns the integer value of key, or fallback if unset or invalid.
func GetEnvInt64(key string, fallback int64) int64 {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvFloat returns the float value of key, or fallback if unset, invalid
// or not finite.
func GetEnvFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return fallback
}

// GetEnvBool returns the boolean value of key, or fallback if unset or invalid.
func GetEnvBool(key string, fallback bool) bool {
	if s := os.Getenv(key); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return fallback
}

// ApplyEnv overrides stream settings from SCROLLER_* variables.
func ApplyEnv(cfg *ScrollerConfig) {
	cfg.Stream.MovementSpeed = GetEnvFloat(EnvSpeed, cfg.Stream.MovementSpeed)
	cfg.Stream.SpawnGap = GetEnvFloat(EnvSpawnGap, cfg.Stream.SpawnGap)
	cfg.Decor.InclusiveReveal = GetEnvBool(EnvInclusive, cfg.Decor.InclusiveReveal)
}
