package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

var (
	ErrInsecureSecret       = errors.New("JWT_SECRET must be set in production when OWNER_PASSPHRASE_HASH is configured")
	ErrNegativeDefaultLen   = errors.New("DEFAULT_LENGTH must not be negative")
	ErrDefaultLenExceedsMax = errors.New("DEFAULT_LENGTH must not exceed MAX_LENGTH")
)

type Config struct {
	Port                string
	Env                 string
	Storage             string
	DataDir             string
	HistoryLimit        int
	DefaultLength       int
	MaxLength           int
	JWTSecret           string
	JWTExpiry           time.Duration
	OwnerPassphraseHash string
	RateLimitRPS        float64
	RateLimitBurst      int
	Metrics             bool
}

// Load reads the configuration from the environment. Malformed numeric
// values fall back to their defaults with a warning.
func Load() Config {
	return Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		Storage:             getEnv("STORAGE", "file"),
		DataDir:             getEnv("DATA_DIR", defaultDataDir()),
		HistoryLimit:        getEnvInt("HISTORY_LIMIT", 5),
		DefaultLength:       getEnvInt("DEFAULT_LENGTH", 8),
		MaxLength:           getEnvInt("MAX_LENGTH", 4096),
		JWTSecret:           getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:           getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		OwnerPassphraseHash: getEnv("OWNER_PASSPHRASE_HASH", ""),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 10),
		Metrics:             getEnvBool("METRICS", true),
	}
}

// Validate rejects configurations that are unsafe or unusable. A MaxLength
// of zero or less disables the upper bound.
func (c Config) Validate() error {
	if c.DefaultLength < 0 {
		return ErrNegativeDefaultLen
	}
	if c.MaxLength > 0 && c.DefaultLength > c.MaxLength {
		return ErrDefaultLenExceedsMax
	}
	if c.Env == "production" && c.OwnerPassphraseHash != "" && c.JWTSecret == devJWTSecret {
		return ErrInsecureSecret
	}
	return nil
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "passgen")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "passgen")
	}
	return filepath.Join(os.TempDir(), "passgen")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid boolean", "key", key, "value", v)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}
