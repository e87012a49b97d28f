// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is accepted by both the pgx and lib/pq drivers.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type Config struct {
	Port        string
	Storage     string
	AutoMigrate bool
	Timezone    string

	DB    DBConfig
	Redis RedisConfig

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RateLimit  int
	RateWindow time.Duration

	StatsCacheTTL time.Duration
}

// Load applies defaults for anything unset. A missing .env file is not an
// error; values already in the environment win over the file.
func Load(envFiles ...string) Config {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		log.Printf("[CONFIG] No env file loaded: %v", err)
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		AutoMigrate: getBoolEnv("AUTO_MIGRATE", true),
		Timezone:    getEnv("TIMEZONE", "Local"),

		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "pgx"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "journal_user"),
			Password: getEnv("DB_PASSWORD", "secret"),
			Name:     getEnv("DB_NAME", "journal_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer: getEnv("JWT_ISSUER", "dot-goal-journal"),
		JWTTTL:    getDurationEnv("JWT_TTL", 72*time.Hour),

		RateLimit:  getIntEnv("RATE_LIMIT", 100),
		RateWindow: getDurationEnv("RATE_WINDOW", time.Minute),

		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", 30*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
