package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Pipeline
	Pipeline PipelineConfig

	// Outbound HTTP
	HTTP HTTPConfig

	// Database (optional sink)
	Database DatabaseConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// PipelineConfig holds the ETL constants shared by every pipeline component.
// Both quality checks read MinRows and MaxMissing from here.
type PipelineConfig struct {
	SourceURL  string
	SheetName  string
	HeaderRows int
	OutputDir  string
	MinRows    int
	MaxMissing int
	Schedule   string // cron expression with seconds

	// CheckSchedule runs the standalone re-check of the latest snapshot
	CheckSchedule string
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64 // requests per second, 0 disables pacing
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether the Postgres sink is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Pipeline: PipelineConfig{
			SourceURL:  getEnv("SOURCE_PAGE_URL", DefaultSourceURL),
			SheetName:  getEnv("SHEET_NAME", "Quarter"),
			HeaderRows: getEnvAsInt("HEADER_ROWS", 4),
			OutputDir:  getEnv("OUTPUT_DIR", "output"),
			MinRows:    getEnvAsInt("MIN_ROWS_THRESHOLD", 10),
			MaxMissing: getEnvAsInt("MAX_MISSING_VALUES", 5),
			Schedule:   getEnv("PIPELINE_SCHEDULE", "0 0 6 * * *"),

			CheckSchedule: getEnv("QUALITY_CHECK_SCHEDULE", "0 30 6 * * *"),
		},

		HTTP: HTTPConfig{
			Timeout:    getEnvAsDuration("HTTP_TIMEOUT", "30s"),
			MaxRetries: getEnvAsInt("HTTP_MAX_RETRIES", 3),
			RateLimit:  getEnvAsFloat("HTTP_RATE_LIMIT", 2),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if path := getEnv("PIPELINE_CONFIG", ""); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultSourceURL is the GOV.UK landing page for Energy Trends section 3
const DefaultSourceURL = "https://www.gov.uk/government/statistics/oil-and-oil-products-section-3-energy-trends"

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	p := c.Pipeline
	if p.SheetName == "" {
		return fmt.Errorf("SHEET_NAME is required")
	}
	if p.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if p.HeaderRows < 0 {
		return fmt.Errorf("HEADER_ROWS must be >= 0, got %d", p.HeaderRows)
	}
	if p.MinRows < 0 {
		return fmt.Errorf("MIN_ROWS_THRESHOLD must be >= 0, got %d", p.MinRows)
	}
	if p.MaxMissing < 0 {
		return fmt.Errorf("MAX_MISSING_VALUES must be >= 0, got %d", p.MaxMissing)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
