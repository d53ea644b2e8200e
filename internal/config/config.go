package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret   string
	AuthSecret  string
	TokenExpiry time.Duration

	// OperatorIDs seeds the operator set consulted for admin endpoints.
	OperatorIDs []int64

	SessionIdleTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		RedisURL:           getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:          getEnv("REDIS_PASSWORD", ""),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AuthSecret:         os.Getenv("AUTH_SECRET"),
		TokenExpiry:        24 * time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("TOKEN_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_EXPIRY: %v", err)
		}
		cfg.TokenExpiry = d
	}

	if v := os.Getenv("SESSION_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %v", err)
		}
		cfg.SessionIdleTimeout = d
	}

	if v := os.Getenv("OPERATOR_IDS"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid OPERATOR_IDS entry %q: %v", part, err)
			}
			cfg.OperatorIDs = append(cfg.OperatorIDs, id)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
