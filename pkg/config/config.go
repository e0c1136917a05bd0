package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Environment variables
// are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data
	MarketData MarketDataConfig

	// Engine defaults
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the price-series cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketDataConfig selects and configures the historical-price source that
// feeds the backtester.
type MarketDataConfig struct {
	Provider     string   // "db", "sise", "synthetic"
	BaseURL      string   // daily-quote page base for the sise scraper
	Tickers      []string // universe synced by the scheduler job
	SyncSchedule string   // cron expression for the EOD sync job
	RateLimitRPS float64  // scrape client requests per second
}

// EngineConfig holds engine-wide numeric defaults.
type EngineConfig struct {
	RiskFreeRate   float64 // annualized, used when a request omits it
	DefaultVol     float64 // annualized, used when a request omits it
	Multiplier     float64 // per-contract size
	PeriodsPerYear int     // Sharpe annualization base for daily bars
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		MarketData: MarketDataConfig{
			Provider:     getEnv("MD_PROVIDER", "synthetic"),
			BaseURL:      getEnv("MD_BASE_URL", "https://finance.naver.com"),
			Tickers:      getEnvAsList("MD_TICKERS", nil),
			SyncSchedule: getEnv("MD_SYNC_SCHEDULE", "0 30 18 * * 1-5"),
			RateLimitRPS: getEnvAsFloat("MD_RATE_LIMIT_RPS", 2.0),
		},

		Engine: EngineConfig{
			RiskFreeRate:   getEnvAsFloat("ENGINE_RISK_FREE_RATE", 0.05),
			DefaultVol:     getEnvAsFloat("ENGINE_DEFAULT_VOL", 0.25),
			Multiplier:     getEnvAsFloat("ENGINE_MULTIPLIER", 100),
			PeriodsPerYear: getEnvAsInt("ENGINE_PERIODS_PER_YEAR", 252),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field requirements.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.MarketData.Provider {
	case "db", "sise", "synthetic":
	default:
		return fmt.Errorf("MD_PROVIDER must be one of: db, sise, synthetic")
	}

	// The db provider and the sync collector both need a reachable store.
	if c.MarketData.Provider == "db" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when MD_PROVIDER=db")
	}

	if c.Engine.Multiplier <= 0 {
		return fmt.Errorf("ENGINE_MULTIPLIER must be positive")
	}
	if c.Engine.PeriodsPerYear <= 0 {
		return fmt.Errorf("ENGINE_PERIODS_PER_YEAR must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
