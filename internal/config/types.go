package config

import "time"

// ProviderType identifies the text-generation backend.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
)

// Config is the top-level cerebro configuration, corresponding to .cerebro.yml.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Models   ModelConfig  `yaml:"models" koanf:"models"`

	// EmbeddingModel enables the semantic article index when non-empty.
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`

	DataDir     string `yaml:"data_dir" koanf:"data_dir"`
	Port        int    `yaml:"port" koanf:"port"`
	IntentsFile string `yaml:"intents_file" koanf:"intents_file"`

	MaxTokens          int           `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature        float64       `yaml:"temperature" koanf:"temperature"`
	RequestTimeout     time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	HistoryTokenBudget int           `yaml:"history_token_budget" koanf:"history_token_budget"`
	RequestsPerMinute  int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	Metrics MetricsConfig `yaml:"metrics" koanf:"metrics"`

	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// ModelConfig maps each model tier to a concrete model identifier.
type ModelConfig struct {
	Standard string `yaml:"standard" koanf:"standard"`
	GPT5     string `yaml:"gpt5" koanf:"gpt5"`
}

// MetricsConfig holds usage recorder settings.
type MetricsConfig struct {
	ServiceName string `yaml:"service_name" koanf:"service_name"`
	QueueSize   int    `yaml:"queue_size" koanf:"queue_size"`
}
