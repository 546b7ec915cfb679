package ratelimit

import (
	"time"

	"github.com/jonathan/profile2pdf/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Route pattern; "{name}" segments match any value
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromSettings builds the limiter configuration from the server settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Crawls spend provider credits
		{Path: "/profiles/fetch", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/profiles/fetch/stream", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Each PDF starts a headless browser
		{Path: "/sessions/{id}/resume.pdf", Method: "GET", Limit: 60, Window: time.Hour, Burst: 5},

		{Path: "/credentials", Method: "PUT", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/sessions/{id}/resume", Method: "PATCH", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/sessions/{id}/resume", Method: "PUT", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}
