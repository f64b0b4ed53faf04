package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GatewayConfig holds the fixed generation parameters.
type GatewayConfig struct {
	Models      TierModels
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Gateway maps a model tier onto a provider call with bounded output, a fixed
// temperature and a per-call timeout. It never retries.
type Gateway struct {
	provider Provider
	cfg      GatewayConfig
}

// NewGateway creates a Gateway. A nil provider is allowed; every Generate
// call then fails with ErrConfiguration.
func NewGateway(provider Provider, cfg GatewayConfig) *Gateway {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Gateway{provider: provider, cfg: cfg}
}

// Model returns the model identifier a tier resolves to.
func (g *Gateway) Model(tier Tier) (string, error) {
	return g.cfg.Models.Model(tier)
}

// Generate sends the composed request to the provider using the model of the
// given tier. Errors wrap exactly one of ErrConfiguration, ErrUpstream,
// ErrTimeout or ErrCancelled.
func (g *Gateway) Generate(ctx context.Context, req CompletionRequest, tier Tier) (*Completion, error) {
	if g.provider == nil {
		return nil, fmt.Errorf("%w: no generation provider configured", ErrConfiguration)
	}
	model, err := g.cfg.Models.Model(tier)
	if err != nil {
		return nil, err
	}

	req.Model = model
	req.MaxTokens = g.cfg.MaxTokens
	req.Temperature = g.cfg.Temperature

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.provider.Complete(callCtx, req)
	if err != nil {
		return nil, classifyError(ctx, callCtx, err)
	}
	if resp == nil || resp.Content == "" {
		return nil, fmt.Errorf("%w: empty completion from %s", ErrUpstream, g.provider.Name())
	}

	usedModel := resp.Model
	if usedModel == "" {
		usedModel = model
	}
	return &Completion{
		Text:  resp.Content,
		Model: usedModel,
		Usage: Usage{
			PromptTokens:     resp.InputTokens,
			CompletionTokens: resp.OutputTokens,
			TotalTokens:      resp.InputTokens + resp.OutputTokens,
		},
	}, nil
}

// classifyError decides which error kind a provider failure belongs to.
// The parent context tells caller cancellation apart from a deadline.
func classifyError(parent, call context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	if call.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
