package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/cerebro/internal/vectordb"
)

// ArticleIndex resolves free-text questions to scientific articles by
// embedding similarity, backed by the SQL catalog for the full rows.
type ArticleIndex struct {
	vectors vectordb.VectorStore
	store   *Store

	// MinSimilarity drops weak hits, so an unrelated question finds no
	// article and the caller can fall back to keyword lookup.
	MinSimilarity float32
}

// NewArticleIndex wraps a vector store and the catalog it points into.
func NewArticleIndex(vectors vectordb.VectorStore, store *Store) *ArticleIndex {
	return &ArticleIndex{vectors: vectors, store: store}
}

// Index replaces the indexed articles with the given set.
func (i *ArticleIndex) Index(ctx context.Context, articles []Article) error {
	if err := i.vectors.DeleteByKind(ctx, string(KindArticles)); err != nil {
		return fmt.Errorf("clearing article index: %w", err)
	}
	docs := make([]vectordb.Document, 0, len(articles))
	now := time.Now()
	for _, a := range articles {
		content := articleText(a)
		sum := sha256.Sum256([]byte(content))
		docs = append(docs, vectordb.Document{
			ID:      a.ID,
			Content: content,
			Metadata: vectordb.DocumentMetadata{
				Kind:        string(KindArticles),
				Title:       a.Title,
				Year:        a.Year,
				ContentHash: hex.EncodeToString(sum[:]),
				IndexedAt:   now,
			},
		})
	}
	if err := i.vectors.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("indexing articles: %w", err)
	}
	return nil
}

// Search returns up to limit articles closest to query, best first.
func (i *ArticleIndex) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	hits, err := i.vectors.Search(ctx, query, clampLimit(limit), vectordb.SearchFilter{
		Kind:          string(KindArticles),
		MinSimilarity: i.MinSimilarity,
	})
	if err != nil {
		return nil, fmt.Errorf("searching article index: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	for n, h := range hits {
		ids[n] = h.Document.ID
	}
	rows, err := i.store.GetArticles(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Article, len(rows))
	for _, a := range rows {
		byID[a.ID] = a
	}
	out := make([]Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Count reports how many documents the underlying index holds.
func (i *ArticleIndex) Count() int { return i.vectors.Count() }

func articleText(a Article) string {
	var sb strings.Builder
	sb.WriteString(a.Title)
	if a.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(a.Summary)
	}
	if len(a.Keywords) > 0 {
		sb.WriteString("\nKeywords: ")
		sb.WriteString(strings.Join(a.Keywords, ", "))
	}
	return sb.String()
}
