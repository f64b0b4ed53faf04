package vectordb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/cerebro/internal/embeddings"
)

const (
	collectionName = "catalog"
	exportFile     = "chromem.gob.gz"
)

// ChromemStore is an in-process VectorStore on chromem-go, persisted as one
// compressed gob file.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embed      chromem.EmbeddingFunc
}

// NewChromemStore creates an empty store embedding through embedder.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	embed := embedFunc(embedder)
	col, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return &ChromemStore{db: db, collection: col, embed: embed}, nil
}

// embedFunc adapts a batch Embedder to chromem's one-text-at-a-time callback.
func embedFunc(e embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vectors) != 1 {
			return nil, fmt.Errorf("embedder %s returned %d vectors for one text", e.Name(), len(vectors))
		}
		return vectors[0], nil
	}
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	chromDocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		chromDocs[i] = chromem.Document{ID: d.ID, Content: d.Content, Metadata: encodeMetadata(d.Metadata)}
	}
	return s.collection.AddDocuments(ctx, chromDocs, runtime.NumCPU())
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter SearchFilter) ([]SearchResult, error) {
	// chromem rejects nResults above the collection size.
	limit = min(max(limit, 1), s.collection.Count())
	if limit == 0 {
		return nil, nil
	}

	var where map[string]string
	if filter.Kind != "" {
		where = map[string]string{"kind": filter.Kind}
	}
	hits, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collectionName, err)
	}

	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.Similarity < filter.MinSimilarity {
			continue
		}
		out = append(out, SearchResult{
			Document:   Document{ID: h.ID, Content: h.Content, Metadata: decodeMetadata(h.Metadata)},
			Similarity: h.Similarity,
		})
	}
	return out, nil
}

func (s *ChromemStore) DeleteByKind(ctx context.Context, kind string) error {
	if s.collection.Count() == 0 {
		return nil
	}
	return s.collection.Delete(ctx, map[string]string{"kind": kind}, nil)
}

// Persist writes the store under dir, creating it when missing.
func (s *ChromemStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return s.db.ExportToFile(filepath.Join(dir, exportFile), true, "")
}

// Load replaces the store contents with what Persist wrote under dir.
func (s *ChromemStore) Load(_ context.Context, dir string) error {
	path := filepath.Join(dir, exportFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w in %s", ErrNoIndex, dir)
	}
	if err := s.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	col := s.db.GetCollection(collectionName, s.embed)
	if col == nil {
		return fmt.Errorf("collection %q missing from %s", collectionName, path)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int { return s.collection.Count() }

func encodeMetadata(m DocumentMetadata) map[string]string {
	return map[string]string{
		"kind":         m.Kind,
		"title":        m.Title,
		"year":         strconv.Itoa(m.Year),
		"content_hash": m.ContentHash,
		"indexed_at":   m.IndexedAt.UTC().Format(time.RFC3339),
	}
}

func decodeMetadata(m map[string]string) DocumentMetadata {
	year, _ := strconv.Atoi(m["year"])
	indexedAt, _ := time.Parse(time.RFC3339, m["indexed_at"])
	return DocumentMetadata{
		Kind:        m["kind"],
		Title:       m["title"],
		Year:        year,
		ContentHash: m["content_hash"],
		IndexedAt:   indexedAt,
	}
}
