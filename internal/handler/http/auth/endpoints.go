// Package auth provides JWT-based authentication for the catalog API.
// It issues tokens for the admin user configured via the environment and
// guards mutating endpoints.
package auth

import "strings"

// PublicEndpoints defines endpoints that don't require authentication.
//
// Justification for each public endpoint:
// - /healthz: required for orchestration health checks
// - /metrics: required for Prometheus scraping
// - /auth/token: token generation endpoint (can't require a token to get one)
var PublicEndpoints = []string{
	"/healthz",
	"/metrics",
	"/auth/token",
}

// IsPublicEndpoint checks if a given path is a public endpoint.
//
// Matching logic:
// - Endpoints ending with '/' use prefix matching
// - Endpoints without '/' require an exact match, a trailing slash,
//   or query params only
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}

		if path == endpoint {
			return true
		}
		if path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
