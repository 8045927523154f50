package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the service reads from the environment. The JWT
// secret is the only value without a default; refusing to start beats running
// with a guessable signing key.
type Config struct {
	Port         int
	DatabaseFile string

	JWTSecret string
	Issuer    string

	TokenTTL             time.Duration
	HousekeepingInterval time.Duration
	TokenRetention       time.Duration
	ShutdownGracePeriod  time.Duration

	Env       string
	LogLevel  string
	LogFormat string
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                 envInt("HELPDESK_PORT", 8080),
		DatabaseFile:         envStr("HELPDESK_DB_FILE", "helpdesk.db"),
		JWTSecret:            os.Getenv("HELPDESK_JWT_SECRET"),
		Issuer:               envStr("HELPDESK_ISSUER", "helpdesk"),
		TokenTTL:             envDuration("HELPDESK_TOKEN_TTL", 24*time.Hour),
		HousekeepingInterval: envDuration("HELPDESK_HOUSEKEEPING_INTERVAL", time.Hour),
		TokenRetention:       envDuration("HELPDESK_TOKEN_RETENTION", 7*24*time.Hour),
		ShutdownGracePeriod:  envDuration("HELPDESK_SHUTDOWN_GRACE", 10*time.Second),
		Env:                  envStr("HELPDESK_ENV", "dev"),
		LogLevel:             envStr("HELPDESK_LOG_LEVEL", "info"),
		LogFormat:            envStr("HELPDESK_LOG_FORMAT", "json"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("HELPDESK_JWT_SECRET must be set")
	}
	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
