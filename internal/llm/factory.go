package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a new LLM provider based on the given provider type and
// default model. Supported provider types: "openai", "anthropic".
// OPENAI_BASE_URL / ANTHROPIC_BASE_URL redirect the client to a compatible endpoint.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable is not set", ErrConfiguration)
		}
		return NewOpenAIProvider(apiKey, model, os.Getenv("OPENAI_BASE_URL")), nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY environment variable is not set", ErrConfiguration)
		}
		return NewAnthropicProvider(apiKey, model, os.Getenv("ANTHROPIC_BASE_URL")), nil

	default:
		return nil, fmt.Errorf("%w: unsupported provider type: %s", ErrConfiguration, providerType)
	}
}
