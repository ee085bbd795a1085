package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the analytics service
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// SentryConfig holds Sentry error tracking configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
}

// AnalyticsConfig holds Google Analytics property configuration.
// CredentialsJSON takes precedence over CredentialsFile when both are set.
// Leaving credentials or PropertyID empty runs the service permanently in
// fallback mode.
type AnalyticsConfig struct {
	PropertyID            string `mapstructure:"property_id"`
	CredentialsJSON       string `mapstructure:"credentials_json"`
	CredentialsFile       string `mapstructure:"credentials_file"`
	CacheTTLMinutes       int    `mapstructure:"cache_ttl_minutes"`
	MaxRetries            int    `mapstructure:"max_retries"`
	SnapshotRetentionDays int    `mapstructure:"snapshot_retention_days"`
}

// Credentials returns the service-account key payload, reading the
// credentials file when no inline JSON is configured.
func (c AnalyticsConfig) Credentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}
	if c.CredentialsFile != "" {
		data, err := os.ReadFile(c.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvPrefix("")

	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")

	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSLMODE")

	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("nats.url", "NATS_URL")

	_ = v.BindEnv("jwt.secret", "JWT_SECRET")

	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")
	_ = v.BindEnv("sentry.environment", "APP_ENV")
	_ = v.BindEnv("sentry.release", "APP_VERSION")

	// Google Analytics
	_ = v.BindEnv("analytics.property_id", "GA_PROPERTY_ID")
	_ = v.BindEnv("analytics.credentials_json", "GA_CREDENTIALS_JSON")
	_ = v.BindEnv("analytics.credentials_file", "GA_CREDENTIALS_FILE")
	_ = v.BindEnv("analytics.cache_ttl_minutes", "GA_CACHE_TTL_MINUTES")
	_ = v.BindEnv("analytics.max_retries", "GA_MAX_RETRIES")
	_ = v.BindEnv("analytics.snapshot_retention_days", "GA_SNAPSHOT_RETENTION_DAYS")

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "service-analytics")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8011")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.ssl_mode", "disable")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// NATS (optional - telemetry events disabled when empty)
	v.SetDefault("nats.url", "")

	// Sentry
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "1.0.0")

	// Analytics
	v.SetDefault("analytics.cache_ttl_minutes", 10)
	v.SetDefault("analytics.max_retries", 3)
	v.SetDefault("analytics.snapshot_retention_days", 90)
}
