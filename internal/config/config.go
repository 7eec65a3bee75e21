package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	RolloverCron string `mapstructure:"SCHEDULER_ROLLOVER_CRON"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	CutoffDay      int    `mapstructure:"BILLING_CUTOFF_DAY"`
	RolloverDay    int    `mapstructure:"BILLING_ROLLOVER_DAY"`
	InvoiceLockTTL string `mapstructure:"INVOICE_LOCK_TTL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("BILLING_CUTOFF_DAY", 20)
	viper.SetDefault("BILLING_ROLLOVER_DAY", 21)
	viper.SetDefault("INVOICE_LOCK_TTL", "30s")
	viper.SetDefault("SCHEDULER_ROLLOVER_CRON", "0 0 2 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.CutoffDay < 1 || c.Business.CutoffDay > 28 {
		return fmt.Errorf("BILLING_CUTOFF_DAY must be between 1 and 28")
	}

	if c.Business.RolloverDay < 1 || c.Business.RolloverDay > 28 {
		return fmt.Errorf("BILLING_ROLLOVER_DAY must be between 1 and 28")
	}

	if _, err := time.ParseDuration(c.Business.InvoiceLockTTL); err != nil {
		return fmt.Errorf("INVOICE_LOCK_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("DATABASE_CONN_MAX_LIFETIME must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA timezone: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetConnMaxLifetime returns the connection max lifetime as duration
func (c *Config) GetConnMaxLifetime() time.Duration {
	duration, _ := time.ParseDuration(c.Database.ConnMaxLifetime)
	return duration
}

// GetInvoiceLockTTL returns the invoice creation lock TTL as duration
func (c *Config) GetInvoiceLockTTL() time.Duration {
	duration, _ := time.ParseDuration(c.Business.InvoiceLockTTL)
	return duration
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// GetSchedulerLocation returns the scheduler timezone
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
