// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Wiki      WikiConfig      `yaml:"wiki" mapstructure:"wiki"`
	Website   WebsiteConfig   `yaml:"website" mapstructure:"website"`
	Quote     QuoteConfig     `yaml:"quote" mapstructure:"quote"`
	Signals   SignalsConfig   `yaml:"signals" mapstructure:"signals"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds LLM API settings. An empty key disables extraction.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// WikiConfig holds encyclopedia lookup settings.
type WikiConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// WebsiteConfig configures the website content fetcher.
type WebsiteConfig struct {
	UserAgent  string   `yaml:"user_agent" mapstructure:"user_agent"`
	Paths      []string `yaml:"paths" mapstructure:"paths"`
	BoostPaths []string `yaml:"boost_paths" mapstructure:"boost_paths"`
}

// QuoteConfig holds equity-quote provider settings.
type QuoteConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SignalsConfig holds the sales-signal collaborator endpoint. An empty
// base URL disables signal generation.
type SignalsConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	MaxSignals int    `yaml:"max_signals" mapstructure:"max_signals"`
}

// StoreConfig configures the caller-side record cache.
type StoreConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"` // memory, sqlite, postgres
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// BatchConfig configures batch enrichment.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int `yaml:"port" mapstructure:"port"`
	RequestTimeoutSecs int `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_secs", 60)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("wiki.base_url", "https://en.wikipedia.org")
	v.SetDefault("website.user_agent", "Mozilla/5.0 (compatible; IntelBot/1.0)")
	v.SetDefault("website.paths", []string{"/", "/about", "/products"})
	v.SetDefault("website.boost_paths", []string{"/", "/about", "/products", "/team", "/customers", "/pricing"})
	v.SetDefault("quote.base_url", "https://financialmodelingprep.com/api/v3")
	v.SetDefault("signals.max_signals", 5)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "intel.db")
	v.SetDefault("store.ttl_hours", 24)

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
