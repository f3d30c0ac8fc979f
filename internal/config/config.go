// Package config loads process-wide configuration from the environment once
// at startup. The resulting struct is passed explicitly to constructors; no
// package reads environment variables at request time.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries every knob the server needs.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// PostgresDSN selects the Postgres store when set. When empty the server
	// runs on the in-memory stores (local development and tests).
	PostgresDSN string

	// CORSOrigin is the single allowed browser origin.
	CORSOrigin string

	// AuthIssuer is the expected token issuer.
	AuthIssuer string

	// AuthJWKSURL points at the identity provider's published signing keys.
	// When set, tokens are verified as RS256 against those keys. When empty,
	// AuthSecret is used for HS256 verification instead (local development).
	AuthJWKSURL string

	// AuthSecret is the HS256 shared secret for the static verifier.
	AuthSecret string

	// RolesClaim names the token claim carrying group/role labels,
	// e.g. "groups" or "cognito:groups".
	RolesClaim string

	// Rate limiting, token bucket per client IP.
	RateBurst  int
	RatePerSec int
}

// FromEnv reads configuration from CLUBHUB_* environment variables, falling
// back to local-development defaults.
func FromEnv() Config {
	return Config{
		Addr:        getEnv("CLUBHUB_ADDR", ":8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("CLUBHUB_PG_DSN")),
		CORSOrigin:  getEnv("CLUBHUB_CORS_ORIGIN", "http://localhost:3000"),
		AuthIssuer:  getEnv("CLUBHUB_AUTH_ISSUER", "clubhub"),
		AuthJWKSURL: strings.TrimSpace(os.Getenv("CLUBHUB_AUTH_JWKS_URL")),
		AuthSecret:  strings.TrimSpace(os.Getenv("CLUBHUB_AUTH_SECRET")),
		RolesClaim:  getEnv("CLUBHUB_AUTH_ROLES_CLAIM", "groups"),
		RateBurst:   getEnvInt("CLUBHUB_RATE_BURST", 50),
		RatePerSec:  getEnvInt("CLUBHUB_RATE_PER_SEC", 25),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
