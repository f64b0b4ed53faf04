// Package assistant runs the request pipeline: classify the last user turn,
// assemble category knowledge, compose the prompt, generate, record usage in
// the background and answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/intent"
	"github.com/ziadkadry99/cerebro/internal/knowledge"
	"github.com/ziadkadry99/cerebro/internal/llm"
	"github.com/ziadkadry99/cerebro/internal/prompt"
	"github.com/ziadkadry99/cerebro/internal/usage"
)

// Generator produces a completion for a composed request. *llm.Gateway
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req llm.CompletionRequest, tier llm.Tier) (*llm.Completion, error)
	Model(tier llm.Tier) (string, error)
}

// UsageRecorder accepts usage records without blocking. *usage.Recorder
// satisfies it.
type UsageRecorder interface {
	Record(r usage.Record)
}

// Deps wires a Pipeline.
type Deps struct {
	Classifier  *intent.Classifier
	Knowledge   *knowledge.Registry
	Composer    *prompt.Composer
	Generator   Generator
	Recorder    UsageRecorder
	ServiceName string
	Logger      *zap.Logger
}

// Pipeline is safe for concurrent use; requests share no mutable state.
type Pipeline struct {
	classifier  *intent.Classifier
	knowledge   *knowledge.Registry
	composer    *prompt.Composer
	generator   Generator
	recorder    UsageRecorder
	serviceName string
	logger      *zap.Logger
	now         func() time.Time
}

// NewPipeline builds a Pipeline. Classifier and Composer default to the
// built-in rule table and history budget.
func NewPipeline(d Deps) *Pipeline {
	if d.Classifier == nil {
		d.Classifier = intent.MustDefault()
	}
	if d.Composer == nil {
		d.Composer = prompt.NewComposer(0)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.ServiceName == "" {
		d.ServiceName = "mega-cerebro-ai"
	}
	return &Pipeline{
		classifier:  d.Classifier,
		knowledge:   d.Knowledge,
		composer:    d.Composer,
		generator:   d.Generator,
		recorder:    d.Recorder,
		serviceName: d.ServiceName,
		logger:      d.Logger.Named("assistant"),
		now:         time.Now,
	}
}

// Classify exposes the first pipeline step on its own.
func (p *Pipeline) Classify(text string) intent.Result {
	return p.classifier.Classify(text)
}

// Run executes one request end to end. Errors wrap ErrInvalidRequest,
// llm.ErrUnknownTier or one of the llm generation error kinds.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Response, error) {
	history, query, err := convertTurns(req.Messages)
	if err != nil {
		return nil, err
	}
	tier, err := llm.ParseTier(req.ModelTier)
	if err != nil {
		return nil, err
	}

	result := p.classifier.Classify(query)

	var fragment knowledge.Fragment
	if p.knowledge != nil {
		fragment = p.knowledge.Assemble(ctx, result.Category, knowledge.Request{
			Query:  query,
			Terms:  intent.SearchTerms(query),
			Caller: knowledge.Caller{Profile: req.UserProfile, UserID: req.UserID},
		})
	} else {
		fragment = knowledge.Fragment{Category: result.Category, UsageMetadata: map[string]int{}}
	}

	composed := p.composer.Compose(fragment, result, history)

	if p.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", llm.ErrConfiguration)
	}
	start := p.now()
	completion, err := p.generator.Generate(ctx, composed, tier)
	elapsed := p.now().Sub(start).Milliseconds()

	if err != nil {
		model, modelErr := p.generator.Model(tier)
		if modelErr != nil {
			model = string(tier)
		}
		p.record(usage.Record{
			Category:       string(result.Category),
			Model:          model,
			ResponseTimeMs: elapsed,
			Success:        false,
			ErrorKind:      ErrorKind(err),
			UserID:         req.UserID,
		})
		return nil, err
	}

	p.record(usage.Record{
		Category:       string(result.Category),
		Model:          completion.Model,
		Usage:          completion.Usage,
		ResponseTimeMs: elapsed,
		Success:        true,
		UserID:         req.UserID,
	})

	p.logger.Info("assistant request completed",
		zap.String("category", string(result.Category)),
		zap.Float64("confidence", result.Confidence),
		zap.String("model", completion.Model),
		zap.Int("total_tokens", completion.Usage.TotalTokens),
		zap.Int64("response_time_ms", elapsed),
	)

	return &Response{
		Content:    completion.Text,
		Intent:     string(result.Category),
		Confidence: result.Confidence,
		Keywords:   result.Keywords,
		Model:      completion.Model,
		Usage:      completion.Usage,
		Counters:   fragment.UsageMetadata,
	}, nil
}

func (p *Pipeline) record(r usage.Record) {
	if p.recorder == nil {
		return
	}
	r.ServiceName = p.serviceName
	r.RecordedAt = p.now().UTC()
	p.recorder.Record(r)
}

// convertTurns validates client turns and returns the history plus the text
// of the last user turn. Turns with any other role than user or assistant
// are skipped; the system prompt is always composed server side.
func convertTurns(turns []Turn) ([]llm.Message, string, error) {
	if len(turns) == 0 {
		return nil, "", fmt.Errorf("%w: messages must not be empty", ErrInvalidRequest)
	}
	history := make([]llm.Message, 0, len(turns))
	query := ""
	for _, t := range turns {
		var role llm.Role
		switch strings.ToLower(t.Role) {
		case "user":
			role = llm.RoleUser
			query = t.Content
		case "assistant":
			role = llm.RoleAssistant
		default:
			continue
		}
		history = append(history, llm.Message{Role: role, Content: t.Content})
	}
	if strings.TrimSpace(query) == "" {
		return nil, "", fmt.Errorf("%w: no user message with content", ErrInvalidRequest)
	}
	return history, query, nil
}

// ErrorKind names the error taxonomy entry err belongs to.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, llm.ErrUnknownTier):
		return "invalid_request"
	case errors.Is(err, llm.ErrConfiguration):
		return "configuration"
	case errors.Is(err, llm.ErrTimeout):
		return "timeout"
	case errors.Is(err, llm.ErrCancelled):
		return "cancelled"
	case errors.Is(err, llm.ErrUpstream):
		return "upstream"
	default:
		return "internal"
	}
}
