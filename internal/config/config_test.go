package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "tawseel-cli", cfg.Logger.ServiceName)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.Browser.ReadyPollInterval)
	assert.Equal(t, 30*time.Second, cfg.Browser.ReadyTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Browser.SettleDelay)

	assert.Equal(t, 45*time.Millisecond, cfg.Chain.KeyDelay)
	assert.Equal(t, 10*time.Second, cfg.Chain.ElementTimeout)

	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("browser.headless", false)
	v.Set("browser.settle_delay", "2s")
	v.Set("chain.key_delay", "10ms")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 2*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, 10*time.Millisecond, cfg.Chain.KeyDelay)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero poll interval", func(c *Config) { c.Browser.ReadyPollInterval = 0 }},
		{"zero ready timeout", func(c *Config) { c.Browser.ReadyTimeout = 0 }},
		{"timeout below poll interval", func(c *Config) {
			c.Browser.ReadyPollInterval = time.Second
			c.Browser.ReadyTimeout = 100 * time.Millisecond
		}},
		{"negative settle delay", func(c *Config) { c.Browser.SettleDelay = -time.Second }},
		{"zero watch interval", func(c *Config) { c.Fill.WatchInterval = 0 }},
		{"negative key delay", func(c *Config) { c.Chain.KeyDelay = -time.Millisecond }},
		{"zero element timeout", func(c *Config) { c.Chain.ElementTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewConfigFromViper_ExpandsProfilesPath(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("profiles.path", "~/companies.json")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.NotContains(t, cfg.Profiles.Path, "~")
}
