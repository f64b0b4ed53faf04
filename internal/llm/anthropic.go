package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	maxErrorBody     = 300
)

// AnthropicProvider talks to the Anthropic Messages API over plain HTTP.
type AnthropicProvider struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider. An empty endpoint
// uses the public Messages API.
func NewAnthropicProvider(apiKey, model, endpoint string) *AnthropicProvider {
	if endpoint == "" {
		endpoint = anthropicAPIURL
	}
	return &AnthropicProvider{apiKey: apiKey, model: model, url: endpoint, client: &http.Client{}}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildAnthropicRequest moves system turns into the top-level system field.
// The Messages API wants strictly alternating turns starting with the user,
// so leading assistant turns are dropped and consecutive turns of one role
// are joined.
func buildAnthropicRequest(defaultModel string, req CompletionRequest) anthropicRequest {
	out := anthropicRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if out.Model == "" {
		out.Model = defaultModel
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = 2000
	}

	var system []string
	for _, msg := range req.Messages {
		var role string
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
			continue
		case RoleUser:
			role = "user"
		case RoleAssistant:
			role = "assistant"
		default:
			continue
		}
		if len(out.Messages) == 0 && role != "user" {
			continue
		}
		if n := len(out.Messages); n > 0 && out.Messages[n-1].Role == role {
			out.Messages[n-1].Content += "\n\n" + msg.Content
			continue
		}
		out.Messages = append(out.Messages, anthropicMessage{Role: role, Content: msg.Content})
	}
	out.System = strings.Join(system, "\n\n")
	return out
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiReq := buildAnthropicRequest(p.model, req)
	if len(apiReq.Messages) == 0 {
		return nil, fmt.Errorf("%w: anthropic request has no user turn", ErrUpstream)
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshalling anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		// Left unwrapped so the gateway can tell timeout from cancellation.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: anthropic request: %v", ErrUpstream, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading anthropic response: %v", ErrUpstream, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: anthropic returned status %d: %s", ErrUpstream, httpResp.StatusCode, anthropicErrorText(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: decoding anthropic response: %v", ErrUpstream, err)
	}

	var content strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, fmt.Errorf("%w: anthropic returned no text content", ErrUpstream)
	}

	return &CompletionResponse{
		Content:      content.String(),
		InputTokens:  apiResp.Usage.InputTokens,
		OutputTokens: apiResp.Usage.OutputTokens,
		Model:        apiResp.Model,
		FinishReason: apiResp.StopReason,
	}, nil
}

// anthropicErrorText prefers the API's error message over the raw body.
func anthropicErrorText(body []byte) string {
	var env anthropicErrorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		return env.Error.Type + ": " + env.Error.Message
	}
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
