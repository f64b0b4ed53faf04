// Package vectordb keeps catalog rows as embeddings so they can be found by
// meaning. The SQL catalog stays the source of truth; documents carry only
// enough metadata to resolve a hit back to its row.
package vectordb

import (
	"context"
	"errors"
	"time"
)

// ErrNoIndex is returned by Load when nothing was persisted yet.
var ErrNoIndex = errors.New("no vector index persisted")

// VectorStore stores catalog documents by embedding.
type VectorStore interface {
	// AddDocuments adds or replaces documents by ID.
	AddDocuments(ctx context.Context, docs []Document) error
	// Search returns up to limit documents closest to query, best first.
	Search(ctx context.Context, query string, limit int, filter SearchFilter) ([]SearchResult, error)
	DeleteByKind(ctx context.Context, kind string) error
	Persist(ctx context.Context, dir string) error
	Load(ctx context.Context, dir string) error
	Count() int
}

// Document is one catalog row rendered as searchable text.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

type DocumentMetadata struct {
	Kind        string // catalog kind, e.g. "articles"
	Title       string
	Year        int
	ContentHash string
	IndexedAt   time.Time
}

type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter narrows a search. Zero values match everything.
type SearchFilter struct {
	Kind string
	// MinSimilarity drops hits scoring below it.
	MinSimilarity float32
}
