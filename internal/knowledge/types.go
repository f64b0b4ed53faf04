// Package knowledge turns a classified request into the instruction and
// reference-data blocks the prompt is built from. Exactly one Assembler runs
// per request, chosen by category.
package knowledge

import (
	"context"
	"errors"

	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/intent"
)

// ErrDataLookup marks a failed reference-data query. It is logged and
// recovered by substituting an empty context block; it never reaches callers.
var ErrDataLookup = errors.New("data lookup failed")

// Caller carries optional per-request context about who is asking.
type Caller struct {
	// Profile is free text such as the clinic's specialty or audience.
	Profile string
	UserID  string
}

// Request is the input to an Assembler.
type Request struct {
	Query  string
	// Terms are the catalog search terms, see intent.SearchTerms.
	Terms  []string
	Caller Caller
}

// Fragment is the knowledge inserted into the outbound prompt.
type Fragment struct {
	Category      intent.Category
	Instructions  string
	Context       string
	UsageMetadata map[string]int
}

// Assembler builds the Fragment for one category.
type Assembler interface {
	Category() intent.Category
	// Tables lists the catalog collections the assembler may read.
	Tables() []catalog.Kind
	Assemble(ctx context.Context, req Request) Fragment
}

// ArticleSearcher resolves free text to articles by meaning. It is optional;
// without one the articles assembler falls back to keyword lookup.
type ArticleSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]catalog.Article, error)
}
