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
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Provider   ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Geo        GeoConfig        `yaml:"geo" mapstructure:"geo"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Views      ViewsConfig      `yaml:"views" mapstructure:"views"`
}

type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig selects where the pipeline collections are persisted:
// memory, sqlite, postgres or redis.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// ProviderConfig selects the intelligence provider and the limits applied
// to every call.
type ProviderConfig struct {
	Name          string  `yaml:"name" mapstructure:"name"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts   int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RatePerMinute float64 `yaml:"rate_per_minute" mapstructure:"rate_per_minute"`
	JSONMode      bool    `yaml:"json_mode" mapstructure:"json_mode"`
}

type GeminiConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	EnrichModel string `yaml:"enrich_model" mapstructure:"enrich_model"`
}

type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// GeoConfig fixes the search position. When Latitude and Longitude are
// both zero and Enabled is set, the position is looked up from LookupURL.
type GeoConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	Latitude  float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude float64 `yaml:"longitude" mapstructure:"longitude"`
	LookupURL string  `yaml:"lookup_url" mapstructure:"lookup_url"`
}

type PipelineConfig struct {
	LeadsKey string `yaml:"leads_key" mapstructure:"leads_key"`
	JobsKey  string `yaml:"jobs_key" mapstructure:"jobs_key"`
}

type ViewsConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// Load reads config.yaml (optional) and SCOUT_* environment variables on
// top of the defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "lead-scout.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("provider.name", "gemini")
	v.SetDefault("provider.timeout_secs", 90)
	v.SetDefault("provider.max_attempts", 3)
	v.SetDefault("provider.rate_per_minute", 30)
	v.SetDefault("provider.json_mode", false)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.enrich_model", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("perplexity.key", "")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("geo.enabled", true)
	v.SetDefault("geo.latitude", 0.0)
	v.SetDefault("geo.longitude", 0.0)
	v.SetDefault("geo.lookup_url", "http://ip-api.com/json")
	v.SetDefault("pipeline.leads_key", "leadgen_crm_proxima_v1")
	v.SetDefault("pipeline.jobs_key", "leadgen_saved_jobs_v1")
	v.SetDefault("views.page_size", 24)

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

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "redis":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for postgres")
		}
	default:
		return eris.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	switch c.Provider.Name {
	case "gemini":
		if c.Gemini.Key == "" {
			return eris.New("config: gemini.key is required")
		}
	case "anthropic":
		if c.Anthropic.Key == "" {
			return eris.New("config: anthropic.key is required")
		}
	case "perplexity":
		if c.Perplexity.Key == "" {
			return eris.New("config: perplexity.key is required")
		}
	default:
		return eris.Errorf("config: unknown provider.name %q", c.Provider.Name)
	}
	return nil
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
