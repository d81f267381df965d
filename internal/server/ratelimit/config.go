package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultReadLimit meters paths without their own tier, per minute. It is
// sized for report reads and run listings, not for collaborator calls.
const defaultReadLimit = 600

// EndpointConfig is one tier: a path pattern (trailing "/" means prefix
// match), an HTTP method, and the budget. Burst caps how much of the budget
// can be spent at once; zero means the full limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads limiter settings from RATE_LIMIT_* environment variables
// and attaches the engine's endpoint tiers.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", defaultReadLimit),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the engine's endpoint tiers. Collaborator
// calls cost real money and get hourly budgets; batch runs fan out to many
// collaborator calls and get the tightest one; pure scoring is cheap and
// local. Reads fall through to the default tier and /health is unmetered
// via the matcher.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/v1/analyze", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/v1/rewrite", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/v1/batch", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		{Path: "/v1/score", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/v1/gaps", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/v1/ground", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},

		// Brute-force protection on account endpoints.
		{Path: "/auth/register", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/auth/password", Method: "PUT", Limit: 20, Window: time.Minute, Burst: 5},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseIPList splits a comma-separated address list into a membership set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
