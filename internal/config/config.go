package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const prodString = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// AMQPURL enables the RabbitMQ notification sink when set.
	AMQPURL      string
	AMQPExchange string

	// RedisAddr enables revenue-estimate caching when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EstimateTTL   time.Duration

	// Pricing policy knobs. The peak window is half-open [start, end).
	PeakStartHour int
	PeakEndHour   int

	// Revenue estimator policy knobs.
	OperatingStartHour int
	OperatingEndHour   int
	FlatHours          int
	WeekdayWeight      int
	WeekendWeight      int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == prodString
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.AMQPURL = getEnv("AMQP_URL", "")
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", "pricing.events")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.EstimateTTL, err = time.ParseDuration(getEnv("ESTIMATE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ESTIMATE_CACHE_TTL: %w", err)
	}

	cfg.PeakStartHour, err = getEnvAsInt("PEAK_START_HOUR", 18)
	if err != nil {
		return nil, fmt.Errorf("invalid PEAK_START_HOUR: %w", err)
	}
	cfg.PeakEndHour, err = getEnvAsInt("PEAK_END_HOUR", 22)
	if err != nil {
		return nil, fmt.Errorf("invalid PEAK_END_HOUR: %w", err)
	}

	cfg.OperatingStartHour, err = getEnvAsInt("OPERATING_START_HOUR", 6)
	if err != nil {
		return nil, fmt.Errorf("invalid OPERATING_START_HOUR: %w", err)
	}
	cfg.OperatingEndHour, err = getEnvAsInt("OPERATING_END_HOUR", 22)
	if err != nil {
		return nil, fmt.Errorf("invalid OPERATING_END_HOUR: %w", err)
	}
	cfg.FlatHours, err = getEnvAsInt("FLAT_REVENUE_HOURS", 8)
	if err != nil {
		return nil, fmt.Errorf("invalid FLAT_REVENUE_HOURS: %w", err)
	}
	cfg.WeekdayWeight, err = getEnvAsInt("REVENUE_WEEKDAY_WEIGHT", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid REVENUE_WEEKDAY_WEIGHT: %w", err)
	}
	cfg.WeekendWeight, err = getEnvAsInt("REVENUE_WEEKEND_WEIGHT", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid REVENUE_WEEKEND_WEIGHT: %w", err)
	}

	if cfg.PeakStartHour < 0 || cfg.PeakEndHour > 24 || cfg.PeakStartHour >= cfg.PeakEndHour {
		return nil, fmt.Errorf("invalid peak window [%d, %d)", cfg.PeakStartHour, cfg.PeakEndHour)
	}
	if cfg.OperatingStartHour < 0 || cfg.OperatingEndHour > 23 || cfg.OperatingStartHour > cfg.OperatingEndHour {
		return nil, fmt.Errorf("invalid operating hours %d..%d", cfg.OperatingStartHour, cfg.OperatingEndHour)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise the provided default.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as an integer, falling back to
// the default when unset and failing when set but not numeric.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
