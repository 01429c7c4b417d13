package config

import (
	"fmt"
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider"
	pkgconfig "github.com/kobykotiv/printvisionbolt-sub000/pkg/config"
)

// ProviderConfig holds credentials and tuning for one provider adapter. An
// adapter with no API key is simply not registered at startup.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Enabled    bool
	Timeout    time.Duration
	MaxRetries int
}

// Config holds all configuration for the blueprint service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"BLUEPRINT_HTTP_PORT" envDefault:"8010"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"printvision"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"printvision_secret"`
	PostgresDB   string `env:"BLUEPRINT_DB_NAME" envDefault:"blueprint_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (search result cache)
	RedisHost      string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort      int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"5m"`

	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Provider adapters. An adapter is registered only when it is enabled
	// and carries an API key.
	ProviderTimeout    time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`
	ProviderMaxRetries int           `env:"PROVIDER_MAX_RETRIES" envDefault:"3"`

	PrintifyAPIKey  string `env:"PRINTIFY_API_KEY" envDefault:""`
	PrintifyBaseURL string `env:"PRINTIFY_BASE_URL" envDefault:""`
	PrintifyEnabled bool   `env:"PRINTIFY_ENABLED" envDefault:"true"`

	PrintfulAPIKey  string `env:"PRINTFUL_API_KEY" envDefault:""`
	PrintfulBaseURL string `env:"PRINTFUL_BASE_URL" envDefault:""`
	PrintfulEnabled bool   `env:"PRINTFUL_ENABLED" envDefault:"true"`

	GootenAPIKey  string `env:"GOOTEN_RECIPE_ID" envDefault:""`
	GootenBaseURL string `env:"GOOTEN_BASE_URL" envDefault:""`
	GootenEnabled bool   `env:"GOOTEN_ENABLED" envDefault:"true"`

	GelatoAPIKey  string `env:"GELATO_API_KEY" envDefault:""`
	GelatoBaseURL string `env:"GELATO_BASE_URL" envDefault:""`
	GelatoEnabled bool   `env:"GELATO_ENABLED" envDefault:"true"`

	// Pprof endpoints are only reachable from these CIDR ranges.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load blueprint config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.SearchCacheTTL <= 0 {
		return nil, fmt.Errorf("SEARCH_CACHE_TTL must be positive, got %s", cfg.SearchCacheTTL)
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// ProviderConfigs returns the adapter configuration for every enabled
// provider that has credentials, keyed by provider id.
func (c *Config) ProviderConfigs() map[string]provider.Config {
	candidates := map[string]ProviderConfig{
		catalog.Printify: {APIKey: c.PrintifyAPIKey, BaseURL: c.PrintifyBaseURL, Enabled: c.PrintifyEnabled},
		catalog.Printful: {APIKey: c.PrintfulAPIKey, BaseURL: c.PrintfulBaseURL, Enabled: c.PrintfulEnabled},
		catalog.Gooten:   {APIKey: c.GootenAPIKey, BaseURL: c.GootenBaseURL, Enabled: c.GootenEnabled},
		catalog.Gelato:   {APIKey: c.GelatoAPIKey, BaseURL: c.GelatoBaseURL, Enabled: c.GelatoEnabled},
	}

	configs := make(map[string]provider.Config)
	for id, pc := range candidates {
		if !pc.Enabled || pc.APIKey == "" {
			continue
		}
		configs[id] = provider.Config{
			APIKey:      pc.APIKey,
			BaseURL:     pc.BaseURL,
			Timeout:     c.ProviderTimeout,
			MaxRetries:  c.ProviderMaxRetries,
			Environment: c.Environment,
		}
	}
	return configs
}
