package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultOrigins covers local frontend dev servers.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

type Config struct {
	Port           string
	DatabaseURL    string
	ReadOnly       bool
	AllowedOrigins []string

	// Retry budget for transient store contention.
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		ReadOnly:       getEnvBool("READ_ONLY", false),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", defaultOrigins),
		RetryAttempts:  getEnvInt("STORE_RETRY_ATTEMPTS", 3),
		RetryBaseDelay: time.Duration(getEnvInt("STORE_RETRY_BASE_MS", 50)) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// getEnvList reads a comma-separated list, ignoring blank entries.
func getEnvList(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		var out []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
