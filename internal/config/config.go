package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Logging
	LogLevel string

	// External services
	APIBaseURL    string
	AddressAPIURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Durable store
	StorePath       string
	StorePassphrase string

	// Address lookup cache
	AddressCacheTTL time.Duration

	// Outbound call bound
	MaxConcurrency int

	// Local debug listener (/metrics, /healthz)
	DebugPort int

	// Observability
	OTLPEndpoint string

	// Headless permission gate: whether media library access is granted.
	MediaPermission bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:    getEnv("UNIBUS_API_URL", "http://localhost:3333"),
		AddressAPIURL: getEnv("ADDRESS_API_URL", "https://viacep.com.br"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		StorePath:       getEnv("STORE_PATH", defaultStorePath()),
		StorePassphrase: getEnv("STORE_PASSPHRASE", "unibus-dev-passphrase-change-me"),

		AddressCacheTTL: getEnvDuration("ADDRESS_CACHE_TTL", 12*time.Hour),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 10),

		DebugPort: getEnvInt("DEBUG_PORT", 8080),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		MediaPermission: getEnv("MEDIA_PERMISSION", "true") == "true",
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "unibus.store"
	}
	return filepath.Join(home, ".unibus", "unibus.store")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
