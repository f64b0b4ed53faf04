package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to cerebro! Let's configure the assistant backend.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select text-generation provider",
		Items: []string{"openai", "anthropic"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	standardPrompt := promptui.Prompt{
		Label:   "Model for the standard tier",
		Default: preset.Standard,
	}
	standard, err := standardPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("standard model: %w", err)
	}

	premiumPrompt := promptui.Prompt{
		Label:   "Model for the gpt5 tier",
		Default: preset.GPT5,
	}
	premium, err := premiumPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("gpt5 model: %w", err)
	}

	dataPrompt := promptui.Prompt{
		Label:   "Data directory (database and indexes)",
		Default: "data",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  "8080",
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	embeddingPrompt := promptui.Select{
		Label: "Build a semantic index for scientific articles?",
		Items: []string{"no", "yes (text-embedding-3-small)"},
	}
	embeddingIdx, _, err := embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Models = ModelConfig{Standard: standard, GPT5: premium}
	cfg.DataDir = dataDir
	cfg.Port = port
	if embeddingIdx == 1 {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}

	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running cerebro server.\n", envVar)
	}
	if cfg.EmbeddingModel != "" && provider != ProviderOpenAI && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("Note: the article index uses OpenAI embeddings and needs OPENAI_API_KEY.")
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(input string) error {
	n, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n <= 0 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
