package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is one throttling tier: requests to Path with Method are
// limited to Limit per Window, with at most Burst served back to back. A
// zero Burst falls back to Limit. A Path ending in "/" matches every longer
// path beneath it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads the limiter configuration from RATE_LIMIT_* environment
// variables. The endpoint tiers themselves are fixed; the environment
// controls the on/off switch, the default budget, the sweep cadence, and the
// IP allow/deny lists.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       ipSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the built-in throttling tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: searches fan out to external backends (strictest limits)
		{Path: "/api/search", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 2: credential endpoints (brute-force protection)
		{Path: "/api/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/api/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// Tier 3: exclusion management (moderate limits)
		{Path: "/api/exclusions", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/exclusions/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 4: read operations are handled by the default budget.
		// Tier 5: GET /health is special-cased as unlimited in the matcher.
	}
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// ipSet parses a comma-separated IP list into a membership map.
func ipSet(csv string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(csv, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
