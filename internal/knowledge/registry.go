package knowledge

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/intent"
)

// Option configures a Registry.
type Option func(*options)

type options struct {
	searcher ArticleSearcher
}

// WithArticleSearcher enables semantic article lookup.
func WithArticleSearcher(s ArticleSearcher) Option {
	return func(o *options) { o.searcher = s }
}

// Registry maps each category to its Assembler.
type Registry struct {
	assemblers map[intent.Category]Assembler
	fallback   Assembler
}

// NewRegistry builds the standard assembler set over reader.
func NewRegistry(reader catalog.Reader, logger *zap.Logger, opts ...Option) *Registry {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("knowledge")

	all := []Assembler{
		&scriptAssembler{reader: reader, logger: logger},
		&learningAssembler{reader: reader, logger: logger},
		&equipmentAssembler{reader: reader, logger: logger},
		&articlesAssembler{reader: reader, searcher: o.searcher, logger: logger},
		&videoAssembler{reader: reader, logger: logger},
		&staticAssembler{category: intent.CategoryMarketingStrategy},
	}
	r := &Registry{
		assemblers: make(map[intent.Category]Assembler, len(all)),
		fallback:   &staticAssembler{category: intent.CategoryGeneral},
	}
	for _, a := range all {
		r.assemblers[a.Category()] = a
	}
	return r
}

// For returns the assembler for category, or the general one.
func (r *Registry) For(category intent.Category) Assembler {
	if a, ok := r.assemblers[category]; ok {
		return a
	}
	return r.fallback
}

// Assemble runs exactly one assembler, selected by category.
func (r *Registry) Assemble(ctx context.Context, category intent.Category, req Request) Fragment {
	f := r.For(category).Assemble(ctx, req)
	if f.UsageMetadata == nil {
		f.UsageMetadata = map[string]int{}
	}
	return f
}
