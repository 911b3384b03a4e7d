// Package config loads skiptrace settings from config.yaml and SKIPTRACE_*
// environment variables, and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/skiptrace-cli/internal/resilience"
)

// Config holds the full application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site" mapstructure:"site"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Circuit CircuitConfig `yaml:"circuit" mapstructure:"circuit"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SiteConfig describes the people-search site and how politely to hit it.
type SiteConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// Timeout returns the per-request timeout.
func (s SiteConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// ResolveConfig tunes the resolution cascade.
type ResolveConfig struct {
	AcceptThreshold int    `yaml:"accept_threshold" mapstructure:"accept_threshold"`
	MaxShortlist    int    `yaml:"max_shortlist" mapstructure:"max_shortlist"`
	MaxCandidates   int    `yaml:"max_candidates" mapstructure:"max_candidates"`
	Cascade         string `yaml:"cascade" mapstructure:"cascade"`
}

// BatchConfig configures bulk runs.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the page cache and run log backend.
type StoreConfig struct {
	Driver        string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL   string `yaml:"database_url" mapstructure:"database_url"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// CacheTTL returns how long fetched pages stay cached. Zero disables the cache.
func (s StoreConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// InputConfig configures the query loader.
type InputConfig struct {
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	SkipBlank bool   `yaml:"skip_blank" mapstructure:"skip_blank"`
}

// OutputConfig configures the result sink.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// RetryConfig configures fetch backoff.
type RetryConfig struct {
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	Jitter           float64 `yaml:"jitter" mapstructure:"jitter"`
}

// CircuitConfig configures the per-host circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	CooldownSecs     int `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RetryPolicy converts the retry settings. Attempts are site.max_retries.
func (c *Config) RetryPolicy() resilience.RetryPolicy {
	return resilience.RetryPolicy{
		MaxAttempts:    c.Site.MaxRetries,
		InitialBackoff: time.Duration(c.Retry.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(c.Retry.MaxBackoffMs) * time.Millisecond,
		Multiplier:     c.Retry.Multiplier,
		Jitter:         c.Retry.Jitter,
	}
}

// BreakerConfig converts the circuit settings.
func (c *Config) BreakerConfig() resilience.BreakerConfig {
	return resilience.BreakerConfig{
		FailureThreshold: c.Circuit.FailureThreshold,
		Cooldown:         time.Duration(c.Circuit.CooldownSecs) * time.Second,
	}
}

// Validate rejects settings the commands cannot act on.
func (c *Config) Validate() error {
	switch c.Resolve.Cascade {
	case "legacy", "escalate":
	default:
		return eris.Errorf("config: resolve.cascade must be legacy or escalate, got %q", c.Resolve.Cascade)
	}
	switch c.Output.Format {
	case "xlsx", "csv", "jsonl":
	default:
		return eris.Errorf("config: output.format must be xlsx, csv or jsonl, got %q", c.Output.Format)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return eris.Errorf("config: store.driver must be sqlite, postgres or none, got %q", c.Store.Driver)
	}
	if c.Batch.Concurrency < 1 {
		return eris.New("config: batch.concurrency must be at least 1")
	}
	if c.Resolve.MaxCandidates < 1 || c.Resolve.MaxShortlist < 1 {
		return eris.New("config: resolve.max_candidates and resolve.max_shortlist must be at least 1")
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SKIPTRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("site.base_url", "https://www.truepeoplesearch.com")
	v.SetDefault("site.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("site.timeout_secs", 30)
	v.SetDefault("site.rate_per_sec", 1.0)
	v.SetDefault("site.burst", 1)
	v.SetDefault("site.max_retries", 3)
	v.SetDefault("resolve.accept_threshold", 75)
	v.SetDefault("resolve.max_shortlist", 1)
	v.SetDefault("resolve.max_candidates", 3)
	v.SetDefault("resolve.cascade", "legacy")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "skiptrace.db")
	v.SetDefault("store.cache_ttl_hours", 72)
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.skip_blank", true)
	v.SetDefault("output.format", "xlsx")
	v.SetDefault("output.path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("retry.initial_backoff_ms", 1000)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter", 0.25)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.cooldown_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
