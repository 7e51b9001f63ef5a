package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment
// variables. Mongo, Kafka and Redis are optional: when absent the application
// falls back to in-memory storage, no event stream and an in-process lock.
type Config struct {
	Env          string
	HTTPAddr     string
	MongoURI     string
	MongoDB      string
	KafkaBrokers []string
	KafkaTopic   string
	RedisAddr    string
	RedisDB      int
	JWTSecret    string
	TokenTTL     time.Duration
	LockTTL      time.Duration
	SeedDemoData bool
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:        getEnv("APP_ENV", "dev"),
		HTTPAddr:   getEnv("HTTP_ADDR", ":8080"),
		MongoURI:   os.Getenv("MONGO_URI"),
		MongoDB:    getEnv("MONGO_DB", "booknblock"),
		KafkaTopic: getEnv("KAFKA_TOPIC", "reservations.events"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	tokenTTL, err := parseDurationEnv("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = tokenTTL

	lockTTL, err := parseDurationEnv("PROPERTY_LOCK_TTL", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.LockTTL = lockTTL

	seed, err := parseBoolEnv("SEED_DEMO_DATA", true)
	if err != nil {
		return Config{}, err
	}
	cfg.SeedDemoData = seed

	if cfg.JWTSecret == "" {
		if cfg.Env == "dev" || cfg.Env == "local" || cfg.Env == "test" {
			cfg.JWTSecret = "booknblock-dev-secret"
		} else {
			return Config{}, fmt.Errorf("JWT_SECRET is required outside dev environments")
		}
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return def, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s: expected boolean, got %q", key, raw)
	}
}
