package config

import "time"

// modelPresets maps each provider to its default tier models.
var modelPresets = map[ProviderType]ModelConfig{
	ProviderOpenAI:    {Standard: "gpt-4o-mini", GPT5: "gpt-5"},
	ProviderAnthropic: {Standard: "claude-haiku-4-5-20251001", GPT5: "claude-sonnet-4-5-20250929"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderOpenAI,
		Models:             modelPresets[ProviderOpenAI],
		DataDir:            "data",
		Port:               8080,
		MaxTokens:          2000,
		Temperature:        0.7,
		RequestTimeout:     60 * time.Second,
		HistoryTokenBudget: 6000,
		Metrics: MetricsConfig{
			ServiceName: "mega-cerebro-ai",
			QueueSize:   256,
		},
		AllowedOrigins: []string{"*"},
	}
}

// GetPreset returns the tier models for the given provider.
// Returns the OpenAI preset if the provider is not found.
func GetPreset(provider ProviderType) ModelConfig {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderOpenAI]
}
