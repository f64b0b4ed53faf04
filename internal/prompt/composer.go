// Package prompt assembles the outbound completion request from a knowledge
// fragment, the classification result and the conversation history.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/cerebro/internal/intent"
	"github.com/ziadkadry99/cerebro/internal/knowledge"
	"github.com/ziadkadry99/cerebro/internal/llm"
)

// DefaultHistoryBudget is the estimated-token budget for conversation history.
const DefaultHistoryBudget = 6000

// ClosingRules is appended after the knowledge context of every prompt.
const ClosingRules = `## Regras de resposta
- Use tom profissional, acolhedor e direto.
- Formate em Markdown, com títulos curtos e listas quando ajudar a leitura.
- Seja conciso: no máximo 400 palavras, salvo pedido explícito de conteúdo longo.
- Use apenas as informações da base de conhecimento quando citar cursos, equipamentos, artigos ou vídeos.
- Não faça diagnósticos nem prescrições; recomende avaliação profissional quando necessário.`

const emptyContext = "Nenhum registro relevante encontrado na base."

// Slot names, in the order they are rendered.
const (
	SlotInstructions = "instructions"
	SlotIntent       = "intent"
	SlotContext      = "context"
	SlotClosing      = "closing"
)

var slotOrder = []string{SlotInstructions, SlotIntent, SlotContext, SlotClosing}

// Builder holds the named sections of the system prompt plus the history.
type Builder struct {
	slots   map[string]string
	history []llm.Message
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{slots: make(map[string]string, len(slotOrder))}
}

// Set fills a slot. Unknown slot names are ignored at render time.
func (b *Builder) Set(slot, text string) *Builder {
	b.slots[slot] = text
	return b
}

// History sets the conversation turns appended after the system prompt.
func (b *Builder) History(turns []llm.Message) *Builder {
	b.history = turns
	return b
}

// System renders the non-empty slots in fixed order.
func (b *Builder) System() string {
	parts := make([]string, 0, len(slotOrder))
	for _, name := range slotOrder {
		if text := strings.TrimSpace(b.slots[name]); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Messages returns the system message followed by the history turns.
func (b *Builder) Messages() []llm.Message {
	msgs := make([]llm.Message, 0, len(b.history)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: b.System()})
	return append(msgs, b.history...)
}

// Composer turns pipeline state into a CompletionRequest.
type Composer struct {
	historyBudget int
}

// NewComposer returns a Composer. A budget <= 0 uses DefaultHistoryBudget.
func NewComposer(historyBudget int) *Composer {
	if historyBudget <= 0 {
		historyBudget = DefaultHistoryBudget
	}
	return &Composer{historyBudget: historyBudget}
}

// Compose builds the request. Model, MaxTokens and Temperature are left for
// the gateway to fill.
func (c *Composer) Compose(fragment knowledge.Fragment, result intent.Result, history []llm.Message) llm.CompletionRequest {
	ctxBlock := fragment.Context
	if strings.TrimSpace(ctxBlock) == "" {
		ctxBlock = emptyContext
	}

	b := NewBuilder().
		Set(SlotInstructions, fragment.Instructions).
		Set(SlotIntent, intentBlock(result)).
		Set(SlotContext, "## Base de conhecimento\n"+ctxBlock).
		Set(SlotClosing, ClosingRules).
		History(TruncateHistory(history, c.historyBudget))

	return llm.CompletionRequest{Messages: b.Messages()}
}

func intentBlock(r intent.Result) string {
	keywords := "nenhuma"
	if len(r.Keywords) > 0 {
		keywords = strings.Join(r.Keywords, ", ")
	}
	return fmt.Sprintf("## Intenção detectada\n- Categoria: %s\n- Confiança: %.2f\n- Palavras-chave: %s",
		r.Category, r.Confidence, keywords)
}

// TruncateHistory keeps the newest turns whose estimated tokens fit within
// budget, dropping the oldest first. The newest turn is always kept.
func TruncateHistory(history []llm.Message, budget int) []llm.Message {
	if len(history) == 0 {
		return nil
	}
	used := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := llm.EstimateTokens(history[i].Content)
		if start < len(history) && used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	out := make([]llm.Message, len(history)-start)
	copy(out, history[start:])
	return out
}
