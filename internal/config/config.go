package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/petdex/analytics/internal/utils"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`            // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort       int           `mapstructure:"http_port"`       // HTTP server port
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Upper bound for one request, upstream fetches included
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// UpstreamConfig describes the paginated PetDex telemetry API
type UpstreamConfig struct {
	BaseURL      string        `mapstructure:"base_url"`      // e.g. https://dsm-p4-g07-2025-7.onrender.com
	AnimalID     string        `mapstructure:"animal_id"`     // Monitored animal
	PageSize     int           `mapstructure:"page_size"`     // Records per page request
	Concurrency  int           `mapstructure:"concurrency"`   // Pages fetched in parallel after page 0
	Timeout      time.Duration `mapstructure:"timeout"`       // Per-attempt timeout
	MaxRetries   int           `mapstructure:"max_retries"`   // Retries per page on transient failures
	RetryBackoff time.Duration `mapstructure:"retry_backoff"` // Initial retry interval
	MaxBackoff   time.Duration `mapstructure:"max_backoff"`   // Retry interval ceiling
}

// AnalyticsConfig holds the physiological bands and window sizes
type AnalyticsConfig struct {
	HeartRateMin       float64       `mapstructure:"heart_rate_min"`
	HeartRateMax       float64       `mapstructure:"heart_rate_max"`
	SanityMax          float64       `mapstructure:"sanity_max"`
	OutlierK           float64       `mapstructure:"outlier_k"`
	WindowDays         int           `mapstructure:"window_days"`
	WindowHours        int           `mapstructure:"window_hours"`
	MinReferencePoints int           `mapstructure:"min_reference_points"`
	ProjectionRows     int           `mapstructure:"projection_rows"`
	ForecastHorizon    int           `mapstructure:"forecast_horizon"`
	ForecastStep       time.Duration `mapstructure:"forecast_step"`
	JoinGranularity    time.Duration `mapstructure:"join_granularity"`
	IncludeGyroscope   bool          `mapstructure:"include_gyroscope"`
	Timezone           string        `mapstructure:"timezone"` // IANA name ("America/Sao_Paulo") or offset ("-03:00")
}

// CacheConfig configures the optional snapshot cache
type CacheConfig struct {
	Type     string        `mapstructure:"type"`     // none (default), memory, redis
	TTL      time.Duration `mapstructure:"ttl"`      // Snapshot lifetime
	Compress bool          `mapstructure:"compress"` // Snappy-compress cached payloads
	RedisURL string        `mapstructure:"redis_url"`
	RedisDB  int           `mapstructure:"redis_db"`
	Prefix   string        `mapstructure:"prefix"` // Key prefix
}

// AlertsConfig configures heart-rate alert publishing
type AlertsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Subject string `mapstructure:"subject"` // Subject, stream or topic the alerts go to
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "petdex")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Upstream.Validate(); err != nil {
		return fmt.Errorf("upstream config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if c.Alerts.Enabled {
		if c.Alerts.Subject == "" {
			return fmt.Errorf("alerts config: subject is required")
		}
		if err := c.Queue.Validate(); err != nil {
			return fmt.Errorf("queue config: %w", err)
		}
	}

	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth config: api_keys is required when auth is enabled")
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	return nil
}

// Validate validates upstream configuration
func (c *UpstreamConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL)
	}

	if c.AnimalID == "" {
		return fmt.Errorf("animal_id is required")
	}

	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	return nil
}

// Validate validates the analytics limits
func (c *AnalyticsConfig) Validate() error {
	if c.HeartRateMin >= c.HeartRateMax {
		return fmt.Errorf("heart_rate_min must be below heart_rate_max")
	}

	if c.SanityMax < c.HeartRateMax {
		return fmt.Errorf("sanity_max cannot be below heart_rate_max")
	}

	if c.OutlierK <= 0 {
		return fmt.Errorf("outlier_k must be positive")
	}

	if c.WindowDays < 1 || c.WindowHours < 1 {
		return fmt.Errorf("window_days and window_hours must be at least 1")
	}

	if c.MinReferencePoints < 1 {
		return fmt.Errorf("min_reference_points must be at least 1")
	}

	if c.ProjectionRows < 1 || c.ForecastHorizon < 1 {
		return fmt.Errorf("projection_rows and forecast_horizon must be at least 1")
	}

	if c.ForecastStep <= 0 || c.JoinGranularity <= 0 {
		return fmt.Errorf("forecast_step and join_granularity must be positive")
	}

	if _, err := parseTimezone(c.Timezone); err != nil {
		return err
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch utils.CacheType(c.Type) {
	case utils.CacheTypeNone, "":
		return nil
	case utils.CacheTypeMemory:
	case utils.CacheTypeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be one of: none, memory, redis")
	}

	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch utils.QueueType(c.Type) {
	case utils.QueueTypeMemory:
		return nil
	case utils.QueueTypeNATS, utils.QueueTypeRedis, "":
		if c.URL == "" {
			return fmt.Errorf("queue.url is required")
		}
	case utils.QueueTypeKafka:
		if len(c.KafkaBrokers) == 0 && c.URL == "" {
			return fmt.Errorf("queue.kafka_brokers or queue.url is required")
		}
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
