package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver    string
	DatabaseDSN string

	RedisAddr    string
	RedisDB      int
	RedisPass    string
	UserCacheTTL time.Duration

	JWTSecret           string
	AccessTokenTTL      time.Duration
	ConfirmationCodeTTL time.Duration

	SendGridAPIKey string
	MailFrom       string

	LogLevel  string
	LogFormat string

	AuthRateLimit float64
	AuthRateBurst int

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DBDriver:            strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseDSN:         getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/reviewhub?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		UserCacheTTL:        getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AccessTokenTTL:      getEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		ConfirmationCodeTTL: getEnvDuration("CONFIRMATION_CODE_TTL", 72*time.Hour),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		MailFrom:            getEnv("MAIL_FROM", "noreply@reviewhub.local"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		AuthRateLimit:       getEnvFloat("AUTH_RATE_LIMIT", 5),
		AuthRateBurst:       getEnvInt("AUTH_RATE_BURST", 10),
		SwaggerHost:         os.Getenv("SWAGGER_HOST"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		problems = append(problems, "DB_DRIVER must be one of: mysql, postgres, sqlite")
	}
	if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be set and at least 16 characters long")
	}
	if c.AccessTokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.ConfirmationCodeTTL <= 0 {
		problems = append(problems, "CONFIRMATION_CODE_TTL must be positive")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, "LOG_FORMAT must be one of: text, json")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		problems = append(problems, "AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
