package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database      DatabaseConfig
	Staging       StagingConfig
	Forecast      ForecastConfig
	Export        ExportConfig
	Observability ObservabilityConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type StagingConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type ForecastConfig struct {
	Horizon        int
	TrainingWindow int
	CVWorkers      int
	RefreshSpec    string
}

type ExportConfig struct {
	OutputDir   string
	ArchiveSpec string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from the environment, picking up a .env file
// when one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "invoices-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Staging: StagingConfig{
			TTL:           getEnvAsDuration("STAGING_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("STAGING_SWEEP_INTERVAL", time.Hour),
		},
		Forecast: ForecastConfig{
			Horizon:        getEnvAsInt("FORECAST_HORIZON", 6),
			TrainingWindow: getEnvAsInt("FORECAST_TRAINING_WINDOW", 24),
			CVWorkers:      getEnvAsInt("FORECAST_CV_WORKERS", 4),
			RefreshSpec:    getEnv("FORECAST_REFRESH_SPEC", "0 3 * * *"),
		},
		Export: ExportConfig{
			OutputDir:   getEnv("EXPORT_OUTPUT_DIR", "exports"),
			ArchiveSpec: getEnv("EXPORT_ARCHIVE_SPEC", "30 3 * * *"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	if cfg.Forecast.Horizon <= 0 {
		return nil, fmt.Errorf("FORECAST_HORIZON must be positive, got %d", cfg.Forecast.Horizon)
	}
	if cfg.Forecast.CVWorkers <= 0 {
		return nil, fmt.Errorf("FORECAST_CV_WORKERS must be positive, got %d", cfg.Forecast.CVWorkers)
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
