package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	ShutdownTimeoutSeconds int
	RedisAddr              string
	RedisEventsEnabled     bool
	RedisEventsKey         string
	JWTSecret              string
	LogLevel               string
}

func Load() Config {
	cfg := load()
	if err := validate(cfg); err != nil {
		log.Fatal(err)
	}
	return cfg
}

// RequireJWTSecret stops the process when no token signing secret is set.
// Only the HTTP server needs one.
func (c Config) RequireJWTSecret() {
	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET must not be empty")
	}
}

func load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	return Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "serve-board.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisEventsEnabled:     getEnvAsBool("REDIS_EVENTS_ENABLED", false),
		RedisEventsKey:         getEnv("REDIS_EVENTS_KEY", "serve_board_events"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
}

func validate(cfg Config) error {
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.RedisEventsEnabled && cfg.RedisEventsKey == "" {
		return fmt.Errorf("REDIS_EVENTS_KEY must not be empty when REDIS_EVENTS_ENABLED is set")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Fatalf("invalid boolean value for %s", key)
		}
		return b
	}
	return defaultVal
}
