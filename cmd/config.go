package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"repairshop/internal/pkg/retry"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RabbitMQURL enables notifications when set.
	RabbitMQURL string
	// StatusCatalogPath points to an optional YAML file with custom statuses.
	StatusCatalogPath string

	RetryMaxRetries        int
	RetryInitialDelay      time.Duration
	RetryMaxDelay          time.Duration
	RetryBackoffMultiplier float64

	// OverdueScanCron is a six-field cron spec; empty means hourly.
	OverdueScanCron string
	// LogFormat is "json" (default) or "text".
	LogFormat string
	LogLevel  string
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	defaults := retry.DefaultPolicy()
	config := Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "repairshop"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		StatusCatalogPath: getEnv("STATUS_CATALOG_PATH", ""),
		OverdueScanCron:   getEnv("OVERDUE_SCAN_CRON", ""),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if config.RetryMaxRetries, err = getInt("RETRY_MAX_RETRIES", defaults.MaxRetries); err != nil {
		return Config{}, err
	}
	if config.RetryInitialDelay, err = getDuration("RETRY_INITIAL_DELAY", defaults.InitialDelay); err != nil {
		return Config{}, err
	}
	if config.RetryMaxDelay, err = getDuration("RETRY_MAX_DELAY", defaults.MaxDelay); err != nil {
		return Config{}, err
	}
	if config.RetryBackoffMultiplier, err = getFloat("RETRY_BACKOFF_MULTIPLIER", defaults.BackoffMultiplier); err != nil {
		return Config{}, err
	}

	return config, nil
}

// DSN is the PostgreSQL connection string in key=value form.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:        c.RetryMaxRetries,
		InitialDelay:      c.RetryInitialDelay,
		MaxDelay:          c.RetryMaxDelay,
		BackoffMultiplier: c.RetryBackoffMultiplier,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// getDuration accepts Go durations ("2s") or plain milliseconds ("2000").
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
