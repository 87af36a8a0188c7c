package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr           string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	RequestTimeout time.Duration
	Debug          bool
}

func Load() Config {
	addr := envString("OPENBOARD_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	return Config{
		Addr:      addr,
		DBPath:    envString("OPENBOARD_DB", "openboard.db"),
		JWTSecret: envString("OPENBOARD_JWT_SECRET", "dev-jwt-secret"),
		// Zero keeps the historical behavior: issued tokens never expire.
		TokenTTL:       envDuration("OPENBOARD_TOKEN_TTL", 0),
		BcryptCost:     envInt("OPENBOARD_BCRYPT_COST", 10),
		RequestTimeout: envDuration("OPENBOARD_REQUEST_TIMEOUT", 10*time.Second),
		Debug:          envBool("OPENBOARD_DEBUG", false),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
