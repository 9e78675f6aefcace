package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the throttling tier for a request. GET /health is
// always unlimited. An exact path+method entry wins over a prefix entry;
// entries whose path ends in "/" match any longer path beneath them. A nil
// return sends the caller to the default budget.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}
	for i := range configs {
		ec := &configs[i]
		if ec.Method == method && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			return ec
		}
	}
	return nil
}
