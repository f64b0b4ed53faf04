package knowledge

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/intent"
)

// Row limits per lookup. All stay within catalog.MaxLimit.
const (
	courseLimit    = 5
	equipmentLimit = 5
	videoLimit     = 5
	articleLimit   = 5
	exampleLimit   = 3
)

// fetch runs a keyword lookup and, when it matches nothing, one unfiltered
// lookup for the newest rows. Errors are logged and yield no rows.
func fetch[T any](
	ctx context.Context,
	logger *zap.Logger,
	kind catalog.Kind,
	terms []string,
	limit int,
	lookup func(ctx context.Context, terms []string, limit int) ([]T, error),
) []T {
	rows, err := lookup(ctx, terms, limit)
	if err == nil && len(rows) == 0 && len(terms) > 0 {
		rows, err = lookup(ctx, nil, limit)
	}
	if err != nil {
		logLookupFailure(logger, kind, err)
		return nil
	}
	return rows
}

func logLookupFailure(logger *zap.Logger, kind catalog.Kind, err error) {
	logger.Warn("reference data lookup failed",
		zap.String("table", string(kind)),
		zap.Error(fmt.Errorf("%w: %w", ErrDataLookup, err)),
	)
}

// --- script generation ---

type scriptAssembler struct {
	reader catalog.Reader
	logger *zap.Logger
}

func (a *scriptAssembler) Category() intent.Category { return intent.CategoryScriptGeneration }
func (a *scriptAssembler) Tables() []catalog.Kind   { return []catalog.Kind{catalog.KindExamples} }

func (a *scriptAssembler) Assemble(ctx context.Context, req Request) Fragment {
	format := detectFormat(req.Query)
	examples := fetch(ctx, a.logger, catalog.KindExamples, req.Terms, exampleLimit,
		func(ctx context.Context, terms []string, limit int) ([]catalog.ApprovedExample, error) {
			return a.reader.SearchExamples(ctx, format, terms, limit)
		})

	lines := make([]string, 0, len(examples))
	for _, e := range examples {
		lines = append(lines, formatExample(e))
	}
	return Fragment{
		Category:      a.Category(),
		Instructions:  instructionsFor(a.Category(), req.Caller),
		Context:       bulletBlock("Exemplos aprovados", lines),
		UsageMetadata: map[string]int{"examples_found": len(examples)},
	}
}

// detectFormat picks the approved-example format the request asks for, or
// "" to match any format.
func detectFormat(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "carrossel") || strings.Contains(q, "carrosséis"):
		return "carrossel"
	case strings.Contains(q, "stories") || strings.Contains(q, "story"):
		return "stories"
	case strings.Contains(q, "reels") || strings.Contains(q, "reel"):
		return "reels"
	}
	return ""
}

// --- learning ---

type learningAssembler struct {
	reader catalog.Reader
	logger *zap.Logger
}

func (a *learningAssembler) Category() intent.Category { return intent.CategoryLearning }
func (a *learningAssembler) Tables() []catalog.Kind   { return []catalog.Kind{catalog.KindCourses} }

func (a *learningAssembler) Assemble(ctx context.Context, req Request) Fragment {
	courses := fetch(ctx, a.logger, catalog.KindCourses, req.Terms, courseLimit, a.reader.SearchCourses)

	lines := make([]string, 0, len(courses))
	for _, c := range courses {
		lines = append(lines, formatCourse(c))
	}
	return Fragment{
		Category:      a.Category(),
		Instructions:  instructionsFor(a.Category(), req.Caller),
		Context:       bulletBlock("Cursos disponíveis", lines),
		UsageMetadata: map[string]int{"courses_found": len(courses)},
	}
}

// --- equipment consultation ---

type equipmentAssembler struct {
	reader catalog.Reader
	logger *zap.Logger
}

func (a *equipmentAssembler) Category() intent.Category {
	return intent.CategoryEquipmentConsultation
}
func (a *equipmentAssembler) Tables() []catalog.Kind { return []catalog.Kind{catalog.KindEquipment} }

func (a *equipmentAssembler) Assemble(ctx context.Context, req Request) Fragment {
	items := fetch(ctx, a.logger, catalog.KindEquipment, req.Terms, equipmentLimit, a.reader.SearchEquipment)

	lines := make([]string, 0, len(items))
	for _, e := range items {
		lines = append(lines, formatEquipment(e))
	}
	return Fragment{
		Category:      a.Category(),
		Instructions:  instructionsFor(a.Category(), req.Caller),
		Context:       bulletBlock("Equipamentos", lines),
		UsageMetadata: map[string]int{"equipment_found": len(items)},
	}
}

// --- scientific articles ---

type articlesAssembler struct {
	reader   catalog.Reader
	searcher ArticleSearcher
	logger   *zap.Logger
}

func (a *articlesAssembler) Category() intent.Category { return intent.CategoryScientificArticles }
func (a *articlesAssembler) Tables() []catalog.Kind   { return []catalog.Kind{catalog.KindArticles} }

func (a *articlesAssembler) Assemble(ctx context.Context, req Request) Fragment {
	var (
		articles []catalog.Article
		semantic int
	)
	if a.searcher != nil {
		found, err := a.searcher.Search(ctx, req.Query, articleLimit)
		if err != nil {
			logLookupFailure(a.logger, catalog.KindArticles, err)
		} else if len(found) > 0 {
			articles = found
			semantic = 1
		}
	}
	if articles == nil {
		articles = fetch(ctx, a.logger, catalog.KindArticles, req.Terms, articleLimit, a.reader.SearchArticles)
	}

	lines := make([]string, 0, len(articles))
	for _, art := range articles {
		lines = append(lines, formatArticle(art))
	}
	return Fragment{
		Category:     a.Category(),
		Instructions: instructionsFor(a.Category(), req.Caller),
		Context:      bulletBlock("Artigos científicos", lines),
		UsageMetadata: map[string]int{
			"articles_found":  len(articles),
			"semantic_search": semantic,
		},
	}
}

// --- video library ---

type videoAssembler struct {
	reader catalog.Reader
	logger *zap.Logger
}

func (a *videoAssembler) Category() intent.Category { return intent.CategoryVideoLibrary }
func (a *videoAssembler) Tables() []catalog.Kind   { return []catalog.Kind{catalog.KindVideos} }

func (a *videoAssembler) Assemble(ctx context.Context, req Request) Fragment {
	videos := fetch(ctx, a.logger, catalog.KindVideos, req.Terms, videoLimit, a.reader.SearchVideos)

	lines := make([]string, 0, len(videos))
	for _, v := range videos {
		lines = append(lines, formatVideo(v))
	}
	return Fragment{
		Category:      a.Category(),
		Instructions:  instructionsFor(a.Category(), req.Caller),
		Context:       bulletBlock("Vídeos da videoteca", lines),
		UsageMetadata: map[string]int{"videos_found": len(videos)},
	}
}

// --- instruction-only categories ---

// staticAssembler performs no lookups. It serves marketing strategy, whose
// context is the caller's profile, and the general fallback.
type staticAssembler struct {
	category intent.Category
}

func (a *staticAssembler) Category() intent.Category { return a.category }
func (a *staticAssembler) Tables() []catalog.Kind   { return nil }

func (a *staticAssembler) Assemble(_ context.Context, req Request) Fragment {
	return Fragment{
		Category:      a.category,
		Instructions:  instructionsFor(a.category, req.Caller),
		Context:       "",
		UsageMetadata: map[string]int{},
	}
}
