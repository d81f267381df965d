package ratelimit

import "strings"

// healthPath is never metered: probes must not be able to starve themselves.
const healthPath = "/health"

// MatchEndpoint resolves a request to its tier. Exact path+method matches
// win over prefix matches; a config path ending in "/" matches any request
// under it (so "/v1/runs/" covers "/v1/runs/{id}"). Returns nil when only
// the default tier applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthPath && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
