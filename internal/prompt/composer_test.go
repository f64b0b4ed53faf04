package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/cerebro/internal/intent"
	"github.com/ziadkadry99/cerebro/internal/knowledge"
	"github.com/ziadkadry99/cerebro/internal/llm"
)

func TestComposeSlotOrder(t *testing.T) {
	frag := knowledge.Fragment{
		Category:     intent.CategoryLearning,
		Instructions: "PERSONA",
		Context:      "Cursos disponíveis:\n- Botox",
	}
	result := intent.Result{Category: intent.CategoryLearning, Confidence: 0.6667, Keywords: []string{"cursos", "botox"}}
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "oi"},
		{Role: llm.RoleAssistant, Content: "olá"},
		{Role: llm.RoleUser, Content: "cursos de botox?"},
	}

	req := NewComposer(0).Compose(frag, result, history)
	require.Len(t, req.Messages, 4)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, history, req.Messages[1:])

	sys := req.Messages[0].Content
	order := []string{"PERSONA", "## Intenção detectada", "- Categoria: learning", "- Confiança: 0.67",
		"- Palavras-chave: cursos, botox", "## Base de conhecimento", "- Botox", "## Regras de resposta"}
	last := -1
	for _, want := range order {
		idx := strings.Index(sys, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q", want)
		assert.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	frag := knowledge.Fragment{Instructions: "x", Context: "y"}
	result := intent.Result{Category: intent.CategoryGeneral, Keywords: []string{}}
	c := NewComposer(100)
	first := c.Compose(frag, result, []llm.Message{{Role: llm.RoleUser, Content: "a"}})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Compose(frag, result, []llm.Message{{Role: llm.RoleUser, Content: "a"}}))
	}
}

func TestComposeEmptyContextPlaceholder(t *testing.T) {
	req := NewComposer(0).Compose(knowledge.Fragment{Instructions: "x"}, intent.Result{Category: intent.CategoryGeneral}, nil)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "## Base de conhecimento\n"+emptyContext)
	assert.Contains(t, req.Messages[0].Content, "- Palavras-chave: nenhuma")
}

func TestTruncateHistory(t *testing.T) {
	turn := func(n int) llm.Message {
		return llm.Message{Role: llm.RoleUser, Content: strings.Repeat("a", n*4)}
	}

	history := []llm.Message{turn(50), turn(30), turn(20), turn(10)}

	assert.Equal(t, history, TruncateHistory(history, 1000))
	assert.Equal(t, history[2:], TruncateHistory(history, 30))
	assert.Equal(t, history[1:], TruncateHistory(history, 60))
	// The newest turn survives even when it alone exceeds the budget.
	assert.Equal(t, []llm.Message{turn(10)}, TruncateHistory(history, 1))
	assert.Nil(t, TruncateHistory(nil, 10))
}

func TestBuilderSkipsEmptySlots(t *testing.T) {
	b := NewBuilder().Set(SlotClosing, "fim").Set(SlotInstructions, "início").Set("bogus", "ignored")
	assert.Equal(t, "início\n\nfim", b.System())
}
