// Package usage records one row per generation for cost and quality
// reporting. Recording is best-effort and never blocks the request path.
package usage

import (
	"errors"
	"time"

	"github.com/ziadkadry99/cerebro/internal/llm"
)

// ErrMetricsWrite wraps a failed usage write. It is logged and swallowed.
var ErrMetricsWrite = errors.New("metrics write failed")

// Record is one generation attempt.
type Record struct {
	ID             string    `json:"id"`
	RecordedAt     time.Time `json:"recorded_at"`
	ServiceName    string    `json:"service_name"`
	Category       string    `json:"category"`
	Model          string    `json:"model"`
	Usage          llm.Usage `json:"usage"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Success        bool      `json:"success"`
	ErrorKind      string    `json:"error_kind,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
}

// SummaryRow aggregates records sharing service, category and model.
type SummaryRow struct {
	ServiceName       string  `json:"service_name"`
	Category          string  `json:"category"`
	Model             string  `json:"model"`
	Requests          int     `json:"requests"`
	Failures          int     `json:"failures"`
	PromptTokens      int     `json:"prompt_tokens"`
	CompletionTokens  int     `json:"completion_tokens"`
	TotalTokens       int     `json:"total_tokens"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	EstimatedCostUSD  float64 `json:"estimated_cost_usd"`
}

// SummaryFilter narrows a Summary query.
type SummaryFilter struct {
	ServiceName string
	Since       *time.Time
}
