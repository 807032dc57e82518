// Package pagination provides offset-based pagination for list endpoints.
// Search across the whole catalogue is the only unbounded query surface,
// so its handler pages results; the fixed per-jurisdiction listings stay
// plain arrays.
package pagination

import (
	"os"
	"strconv"
)

// Config holds pagination settings.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv loads the configuration from PAGINATION_DEFAULT_PAGE,
// PAGINATION_DEFAULT_LIMIT, and PAGINATION_MAX_LIMIT, falling back to
// defaults for unset or unparsable values.
func LoadFromEnv() Config {
	return Config{
		DefaultPage:  getEnvAsInt("PAGINATION_DEFAULT_PAGE", 1),
		DefaultLimit: getEnvAsInt("PAGINATION_DEFAULT_LIMIT", 20),
		MaxLimit:     getEnvAsInt("PAGINATION_MAX_LIMIT", 100),
	}
}

func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
