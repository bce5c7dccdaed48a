package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Text      TextConfig      `yaml:"text" mapstructure:"text"`
	Design    DesignConfig    `yaml:"design" mapstructure:"design"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig configures the completion service.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	// PacingMS spaces consecutive completion calls.
	PacingMS    int  `yaml:"pacing_ms" mapstructure:"pacing_ms"`
	WebResearch bool `yaml:"web_research" mapstructure:"web_research"`
}

// CrawlConfig configures fetching and page selection.
type CrawlConfig struct {
	MaxSelected      int     `yaml:"max_selected" mapstructure:"max_selected"`
	FetchTimeoutSecs int     `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	CourtesyDelayMS  int     `yaml:"courtesy_delay_ms" mapstructure:"courtesy_delay_ms"`
	UserAgent        string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes     int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Overlap          float64 `yaml:"overlap" mapstructure:"overlap"`
}

// TextConfig configures clean-text extraction.
type TextConfig struct {
	MaxChars         int `yaml:"max_chars" mapstructure:"max_chars"`
	FallbackMaxChars int `yaml:"fallback_max_chars" mapstructure:"fallback_max_chars"`
}

// DesignConfig configures design-asset extraction.
type DesignConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	AssetDir    string `yaml:"asset_dir" mapstructure:"asset_dir"`
	MaxCSSFiles int    `yaml:"max_css_files" mapstructure:"max_css_files"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("SITEINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.pacing_ms", 0)
	v.SetDefault("anthropic.web_research", false)
	v.SetDefault("crawl.max_selected", 10)
	v.SetDefault("crawl.fetch_timeout_secs", 30)
	v.SetDefault("crawl.courtesy_delay_ms", 1100)
	v.SetDefault("crawl.user_agent", "")
	v.SetDefault("crawl.max_body_bytes", 5<<20)
	v.SetDefault("crawl.overlap", 0.8)
	v.SetDefault("text.max_chars", 15000)
	v.SetDefault("text.fallback_max_chars", 8000)
	v.SetDefault("design.enabled", true)
	v.SetDefault("design.asset_dir", "")
	v.SetDefault("design.max_css_files", 5)
	v.SetDefault("server.port", 8080)
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

// Validate checks the fields a command mode depends on. Modes: "crawl",
// "serve", "local" (no completion service needed).
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "crawl":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	case "serve":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "local":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Crawl.MaxSelected < 1 || c.Crawl.MaxSelected > 10 {
		errs = append(errs, "crawl.max_selected must be between 1 and 10")
	}
	if c.Crawl.FetchTimeoutSecs <= 0 {
		errs = append(errs, "crawl.fetch_timeout_secs must be > 0")
	}
	if c.Crawl.CourtesyDelayMS < 0 {
		errs = append(errs, "crawl.courtesy_delay_ms must be >= 0")
	}
	if c.Crawl.Overlap <= 0 || c.Crawl.Overlap > 1 {
		errs = append(errs, "crawl.overlap must be in (0, 1]")
	}
	if c.Text.MaxChars <= 0 || c.Text.FallbackMaxChars <= 0 {
		errs = append(errs, "text.max_chars and text.fallback_max_chars must be > 0")
	}
	if c.Design.MaxCSSFiles < 0 {
		errs = append(errs, "design.max_css_files must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
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
