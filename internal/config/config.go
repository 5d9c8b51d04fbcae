package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Supabase   SupabaseConfig   `yaml:"supabase" mapstructure:"supabase"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver" validate:"oneof=sqlite postgres supabase"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url" validate:"required_unless=Driver supabase"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig sizes the Postgres connection pool.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns" validate:"gte=0"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns" validate:"gte=0,ltefield=MaxConns"`
}

// SupabaseConfig locates the hosted Supabase project.
type SupabaseConfig struct {
	URL    string `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Key    string `yaml:"key" mapstructure:"key"`
	Schema string `yaml:"schema" mapstructure:"schema"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	ExtractionModel   string  `yaml:"extraction_model" mapstructure:"extraction_model" validate:"required"`
	ReportModel       string  `yaml:"report_model" mapstructure:"report_model" validate:"required"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"gt=0"`
}

// ExtractionConfig tunes the artifact extraction calls.
type ExtractionConfig struct {
	Temperature float64       `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=1"`
	MaxTokens   int64         `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gt=0"`
	PromptDir   string        `yaml:"prompt_dir" mapstructure:"prompt_dir"`
	Retry       RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Circuit     CircuitConfig `yaml:"circuit" mapstructure:"circuit"`
}

// RetryConfig configures retries of transient LLM failures.
type RetryConfig struct {
	Attempts         int `yaml:"attempts" mapstructure:"attempts" validate:"gt=0"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms" validate:"gt=0"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms" validate:"gtefield=InitialBackoffMs"`
}

// CircuitConfig configures the LLM circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"gt=0"`
	CooldownSecs     int `yaml:"cooldown_secs" mapstructure:"cooldown_secs" validate:"gt=0"`
}

// Cooldown returns the open interval of the breaker.
func (c CircuitConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSecs) * time.Second
}

// ReportConfig configures report generation.
type ReportConfig struct {
	SettingsPath string `yaml:"settings_path" mapstructure:"settings_path"`
	PromptPath   string `yaml:"prompt_path" mapstructure:"prompt_path"`
	CacheTTL     string `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"oneof=5m 1h"`
}

// PipelineConfig configures the analysis pipeline.
type PipelineConfig struct {
	Dedupe bool `yaml:"dedupe" mapstructure:"dedupe"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.call-intel")

	// Environment
	v.SetEnvPrefix("CALLINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "call-intel.db")
	v.SetDefault("store.pool.max_conns", 10)
	v.SetDefault("store.pool.min_conns", 2)
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.key", "")
	v.SetDefault("supabase.schema", "public")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.extraction_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.report_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.requests_per_second", 2.0)
	v.SetDefault("anthropic.timeout_secs", 120)
	v.SetDefault("extraction.temperature", 0.2)
	v.SetDefault("extraction.max_tokens", 2000)
	v.SetDefault("extraction.prompt_dir", "")
	v.SetDefault("extraction.retry.attempts", 3)
	v.SetDefault("extraction.retry.initial_backoff_ms", 500)
	v.SetDefault("extraction.retry.max_backoff_ms", 10000)
	v.SetDefault("extraction.circuit.failure_threshold", 5)
	v.SetDefault("extraction.circuit.cooldown_secs", 30)
	v.SetDefault("report.settings_path", "")
	v.SetDefault("report.prompt_path", "")
	v.SetDefault("report.cache_ttl", "5m")
	v.SetDefault("pipeline.dedupe", true)
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

// Validate checks the loaded values against their constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	if c.Store.Driver == "supabase" && (c.Supabase.URL == "" || c.Supabase.Key == "") {
		return eris.New("config: supabase driver requires supabase.url and supabase.key")
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
