package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("GAMESHELF_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("GAMESHELF_JWT_ISSUER")
	if issuer == "" {
		issuer = "gameshelf"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("GAMESHELF_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

// SourcesConfig carries the external catalog credentials. Steam's store search
// works without a key; IGDB always needs the Twitch client id/secret pair.
// Missing credentials disable one source without touching the other.
type SourcesConfig struct {
	IGDBClientID     string
	IGDBClientSecret string
}

func LoadSourcesConfig() SourcesConfig {
	return SourcesConfig{
		IGDBClientID:     os.Getenv("IGDB_CLIENT_ID"),
		IGDBClientSecret: os.Getenv("IGDB_CLIENT_SECRET"),
	}
}
