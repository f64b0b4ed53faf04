// Package llm turns a composed prompt into generated text. Providers speak
// one vendor API each; the Gateway adds tier resolution, fixed generation
// parameters, the per-call timeout and error classification.
package llm

import "context"

// Provider is one text-generation backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn. The system prompt travels as the first message
// with RoleSystem.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is what a Provider sends upstream. Model, MaxTokens and
// Temperature are filled in by the Gateway.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is a provider's raw answer.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Usage is the token accounting of one generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is what the Gateway hands back to the pipeline.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}
