package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Models.Standard)
	assert.Equal(t, "gpt-5", cfg.Models.GPT5)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "mega-cerebro-ai", cfg.Metrics.ServiceName)
	assert.Equal(t, filepath.Join("data", "cerebro.db"), cfg.DatabasePath())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.cerebro.yml")

	original := DefaultConfig()
	original.Provider = ProviderAnthropic
	original.Models = GetPreset(ProviderAnthropic)
	original.Port = 9090
	original.MaxTokens = 1500
	original.RequestTimeout = 30 * time.Second
	original.AllowedOrigins = []string{"https://app.example.com"}

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Provider, loaded.Provider)
	assert.Equal(t, original.Models, loaded.Models)
	assert.Equal(t, 9090, loaded.Port)
	assert.Equal(t, 1500, loaded.MaxTokens)
	assert.Equal(t, 30*time.Second, loaded.RequestTimeout)
	assert.Equal(t, []string{"https://app.example.com"}, loaded.AllowedOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err, "missing file should fall back to defaults")
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("CEREBRO_PROVIDER", "anthropic")
	t.Setenv("CEREBRO_MODELS__STANDARD", "claude-haiku-4-5-20251001")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, loaded.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", loaded.Models.Standard)
	assert.Equal(t, "gpt-5", loaded.Models.GPT5)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "google" }, true},
		{"missing tier model", func(c *Config) { c.Models.GPT5 = "" }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"negative budget", func(c *Config) { c.HistoryTokenBudget = -1 }, true},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"zero queue", func(c *Config) { c.Metrics.QueueSize = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", APIKeyEnvVar(ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", APIKeyEnvVar(ProviderAnthropic))
	assert.Equal(t, "", APIKeyEnvVar("unknown"))
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort("8080"))
	assert.Error(t, validatePort("abc"))
	assert.Error(t, validatePort("0"))
}
