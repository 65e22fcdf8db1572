// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the Redis-backed cache.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for asynq-backed background jobs.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetMetricsSnapshotCron() string
	GetInboxSweepCron() string
	GetInboxStaleAfter() time.Duration
}

// LeadsConfig provides tuning for the lead pipeline engine.
type LeadsConfig interface {
	GetLeadsDefaultPageSize() int
	GetLeadsMaxPageSize() int
	GetLeadsWeekStart() time.Weekday
	GetLeadsLocale() string
	GetLeadsTimezone() *time.Location
	GetMetricsCacheTTL() time.Duration
	GetPhoneDefaultRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	MigrationsDir       string
	JWTAccessSecret     string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueueName      string
	AsynqConcurrency    int
	MetricsSnapshotCron string
	InboxSweepCron      string
	InboxStaleAfter     time.Duration
	LeadsPageSize       int
	LeadsMaxPageSize    int
	LeadsWeekStart      time.Weekday
	LeadsLocale         string
	LeadsTimezone       *time.Location
	MetricsCacheTTL     time.Duration
	PhoneDefaultRegion  string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }
func (c *Config) GetMetricsSnapshotCron() string    { return c.MetricsSnapshotCron }
func (c *Config) GetInboxSweepCron() string         { return c.InboxSweepCron }
func (c *Config) GetInboxStaleAfter() time.Duration { return c.InboxStaleAfter }

// LeadsConfig implementation
func (c *Config) GetLeadsDefaultPageSize() int      { return c.LeadsPageSize }
func (c *Config) GetLeadsMaxPageSize() int          { return c.LeadsMaxPageSize }
func (c *Config) GetLeadsWeekStart() time.Weekday   { return c.LeadsWeekStart }
func (c *Config) GetLeadsLocale() string            { return c.LeadsLocale }
func (c *Config) GetMetricsCacheTTL() time.Duration { return c.MetricsCacheTTL }
func (c *Config) GetPhoneDefaultRegion() string     { return c.PhoneDefaultRegion }
func (c *Config) GetLeadsTimezone() *time.Location {
	if c.LeadsTimezone == nil {
		return time.UTC
	}
	return c.LeadsTimezone
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	weekStart, err := parseWeekday(getEnv("LEADS_WEEK_START", "monday"))
	if err != nil {
		return nil, err
	}

	tz, err := time.LoadLocation(getEnv("LEADS_TIMEZONE", "America/Mexico_City"))
	if err != nil {
		return nil, fmt.Errorf("LEADS_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		MigrationsDir:       getEnv("MIGRATIONS_DIR", "migrations"),
		JWTAccessSecret:     getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "leads"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		MetricsSnapshotCron: getEnv("METRICS_SNAPSHOT_CRON", "5 0 * * *"),
		InboxSweepCron:      getEnv("INBOX_SWEEP_CRON", "0 * * * *"),
		InboxStaleAfter:     mustDuration(getEnv("INBOX_STALE_AFTER", "4h")),
		LeadsPageSize:       mustInt(getEnv("LEADS_PAGE_SIZE", "20")),
		LeadsMaxPageSize:    mustInt(getEnv("LEADS_MAX_PAGE_SIZE", "100")),
		LeadsWeekStart:      weekStart,
		LeadsLocale:         getEnv("LEADS_LOCALE", "es-MX"),
		LeadsTimezone:       tz,
		MetricsCacheTTL:     mustDuration(getEnv("METRICS_CACHE_TTL", "30s")),
		PhoneDefaultRegion:  getEnv("PHONE_DEFAULT_REGION", "MX"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.LeadsPageSize < 1 {
		return nil, fmt.Errorf("LEADS_PAGE_SIZE must be a positive integer")
	}
	if cfg.LeadsMaxPageSize < cfg.LeadsPageSize {
		return nil, fmt.Errorf("LEADS_MAX_PAGE_SIZE must be at least LEADS_PAGE_SIZE")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseWeekday(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sunday", "sun", "domingo":
		return time.Sunday, nil
	case "monday", "mon", "lunes", "":
		return time.Monday, nil
	case "saturday", "sat", "sabado", "sábado":
		return time.Saturday, nil
	default:
		return time.Monday, fmt.Errorf("LEADS_WEEK_START: unsupported weekday %q", value)
	}
}
