package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petdex/analytics/internal/utils"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PETDEX_UPSTREAM_ANIMAL_ID
const EnvPrefix = "PETDEX"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/petdex")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults mirrors DefaultConfig so that every key is known to viper and
// can be overridden from the environment.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("upstream.base_url", d.Upstream.BaseURL)
	v.SetDefault("upstream.animal_id", d.Upstream.AnimalID)
	v.SetDefault("upstream.page_size", d.Upstream.PageSize)
	v.SetDefault("upstream.concurrency", d.Upstream.Concurrency)
	v.SetDefault("upstream.timeout", d.Upstream.Timeout)
	v.SetDefault("upstream.max_retries", d.Upstream.MaxRetries)
	v.SetDefault("upstream.retry_backoff", d.Upstream.RetryBackoff)
	v.SetDefault("upstream.max_backoff", d.Upstream.MaxBackoff)

	v.SetDefault("analytics.heart_rate_min", d.Analytics.HeartRateMin)
	v.SetDefault("analytics.heart_rate_max", d.Analytics.HeartRateMax)
	v.SetDefault("analytics.sanity_max", d.Analytics.SanityMax)
	v.SetDefault("analytics.outlier_k", d.Analytics.OutlierK)
	v.SetDefault("analytics.window_days", d.Analytics.WindowDays)
	v.SetDefault("analytics.window_hours", d.Analytics.WindowHours)
	v.SetDefault("analytics.min_reference_points", d.Analytics.MinReferencePoints)
	v.SetDefault("analytics.projection_rows", d.Analytics.ProjectionRows)
	v.SetDefault("analytics.forecast_horizon", d.Analytics.ForecastHorizon)
	v.SetDefault("analytics.forecast_step", d.Analytics.ForecastStep)
	v.SetDefault("analytics.join_granularity", d.Analytics.JoinGranularity)
	v.SetDefault("analytics.include_gyroscope", d.Analytics.IncludeGyroscope)
	v.SetDefault("analytics.timezone", d.Analytics.Timezone)

	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.compress", d.Cache.Compress)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.prefix", d.Cache.Prefix)

	v.SetDefault("alerts.enabled", d.Alerts.Enabled)
	v.SetDefault("alerts.subject", d.Alerts.Subject)

	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.username", d.Queue.Username)
	v.SetDefault("queue.password", d.Queue.Password)
	v.SetDefault("queue.redis_db", d.Queue.RedisDB)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)
	v.SetDefault("queue.kafka_brokers", d.Queue.KafkaBrokers)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			HTTPPort:       8000,
			RequestTimeout: utils.DefaultRequestTimeout,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   utils.DefaultRequestTimeout + 5*time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:      "https://dsm-p4-g07-2025-7.onrender.com",
			AnimalID:     "68194120636f719fcd5ee5fd",
			PageSize:     utils.UpstreamPageSize,
			Concurrency:  utils.UpstreamConcurrency,
			Timeout:      utils.UpstreamRequestTimeout,
			MaxRetries:   utils.DefaultMaxRetries,
			RetryBackoff: utils.DefaultRetryBackoff,
			MaxBackoff:   utils.MaxRetryBackoff,
		},
		Analytics: AnalyticsConfig{
			HeartRateMin:       30,
			HeartRateMax:       200,
			SanityMax:          250,
			OutlierK:           3,
			WindowDays:         5,
			WindowHours:        5,
			MinReferencePoints: 2,
			ProjectionRows:     10,
			ForecastHorizon:    5,
			ForecastStep:       time.Minute,
			JoinGranularity:    time.Minute,
			Timezone:           "-03:00",
		},
		Cache: CacheConfig{
			Type:     string(utils.CacheTypeNone),
			TTL:      utils.DefaultSnapshotTTL,
			Compress: true,
			Prefix:   "petdex:snapshot:",
		},
		Alerts: AlertsConfig{
			Subject: "petdex.alerts.heart_rate",
		},
		Queue: QueueConfig{
			Type:        string(utils.QueueTypeNATS),
			URL:         "nats://localhost:4222",
			RedisStream: "petdex",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
