// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Fill     FillConfig     `mapstructure:"fill" yaml:"fill"`
	Chain    ChainConfig    `mapstructure:"chain" yaml:"chain"`
	Profiles ProfilesConfig `mapstructure:"profiles" yaml:"profiles"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for live browser sessions.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// ReadyPollInterval is how often the deployer asks the target page for
	// document.readyState while waiting for it to finish loading.
	ReadyPollInterval time.Duration `mapstructure:"ready_poll_interval" yaml:"ready_poll_interval"`
	// ReadyTimeout is the hard ceiling on readiness polling.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout" yaml:"ready_timeout"`
	// SettleDelay is the fixed pause after readiness, covering pages that
	// keep rendering their form asynchronously after the load event.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// FillConfig tunes the heuristic fill engine.
type FillConfig struct {
	// WatchInterval is the polling cadence of the dynamic field watcher.
	WatchInterval time.Duration `mapstructure:"watch_interval" yaml:"watch_interval"`
}

// ChainConfig carries defaults for the action-chain controller.
type ChainConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// KeyDelay is the default inter-character delay used by typing actions.
	KeyDelay time.Duration `mapstructure:"key_delay" yaml:"key_delay"`
	// ElementTimeout is the default ceiling for wait-for-element actions.
	ElementTimeout time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
}

// ProfilesConfig locates the company profile definitions.
type ProfilesConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "tawseel-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.navigation_timeout", "90s")
	v.SetDefault("browser.ready_poll_interval", "500ms")
	v.SetDefault("browser.ready_timeout", "30s")
	v.SetDefault("browser.settle_delay", "1500ms")

	// -- Fill --
	v.SetDefault("fill.watch_interval", "750ms")

	// -- Chain --
	v.SetDefault("chain.debug", false)
	v.SetDefault("chain.key_delay", "45ms")
	v.SetDefault("chain.element_timeout", "10s")

	// -- Profiles --
	v.SetDefault("profiles.path", "companies.json")
}

// NewDefaultConfig creates a configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Expand user-relative paths (e.g. ~/companies.json) before validation.
	if cfg.Profiles.Path != "" {
		expanded, err := homedir.Expand(cfg.Profiles.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand profiles path: %w", err)
		}
		cfg.Profiles.Path = expanded
	}
	if cfg.Logger.LogFile != "" {
		expanded, err := homedir.Expand(cfg.Logger.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand log file path: %w", err)
		}
		cfg.Logger.LogFile = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Browser.ReadyPollInterval <= 0 {
		return fmt.Errorf("browser.ready_poll_interval must be a positive duration")
	}
	if c.Browser.ReadyTimeout <= 0 {
		return fmt.Errorf("browser.ready_timeout must be a positive duration")
	}
	if c.Browser.ReadyTimeout < c.Browser.ReadyPollInterval {
		return fmt.Errorf("browser.ready_timeout must not be shorter than browser.ready_poll_interval")
	}
	if c.Browser.SettleDelay < 0 {
		return fmt.Errorf("browser.settle_delay must not be negative")
	}
	if c.Fill.WatchInterval <= 0 {
		return fmt.Errorf("fill.watch_interval must be a positive duration")
	}
	if c.Chain.KeyDelay < 0 {
		return fmt.Errorf("chain.key_delay must not be negative")
	}
	if c.Chain.ElementTimeout <= 0 {
		return fmt.Errorf("chain.element_timeout must be a positive duration")
	}
	return nil
}
