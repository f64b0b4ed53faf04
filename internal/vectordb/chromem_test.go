package vectordb

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"
)

// mockEmbedder returns deterministic embeddings based on text content.
type mockEmbedder struct {
	dims int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

// deterministicVector produces a normalized vector from text. Similar texts
// produce similar vectors because shared characters land on the same positions.
func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func sampleDocs() []Document {
	now := time.Now()
	return []Document{
		{
			ID:       "a1",
			Content:  "Microfocused ultrasound for skin laxity",
			Metadata: DocumentMetadata{Kind: "articles", Title: "HIFU review", Year: 2020, IndexedAt: now},
		},
		{
			ID:       "a2",
			Content:  "Hyaluronic acid fillers and vascular complications",
			Metadata: DocumentMetadata{Kind: "articles", Title: "Filler safety", Year: 2022, IndexedAt: now},
		},
		{
			ID:       "c1",
			Content:  "Curso de harmonização facial",
			Metadata: DocumentMetadata{Kind: "courses", Title: "Harmonização"},
		},
	}
}

func TestChromemStore_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	if err := store.AddDocuments(ctx, sampleDocs()); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}
	if got := store.Count(); got != 3 {
		t.Fatalf("Count = %d, want 3", got)
	}

	results, err := store.Search(ctx, "Microfocused ultrasound for skin laxity", 1, SearchFilter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Document.ID != "a1" {
		t.Errorf("top result = %q, want a1", results[0].Document.ID)
	}
	if results[0].Document.Metadata.Year != 2020 || results[0].Document.Metadata.Title != "HIFU review" {
		t.Errorf("metadata not round-tripped: %+v", results[0].Document.Metadata)
	}
}

func TestChromemStore_SearchEmpty(t *testing.T) {
	store, err := NewChromemStore(newMockEmbedder(16))
	if err != nil {
		t.Fatal(err)
	}
	results, err := store.Search(context.Background(), "anything", 5, SearchFilter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestChromemStore_SearchWithFilter(t *testing.T) {
	ctx := context.Background()
	store, _ := NewChromemStore(newMockEmbedder(64))
	if err := store.AddDocuments(ctx, sampleDocs()); err != nil {
		t.Fatal(err)
	}

	results, err := store.Search(ctx, "harmonização", 3, SearchFilter{Kind: "courses"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Document.ID != "c1" {
		t.Errorf("got %+v, want only c1", results)
	}
}

func TestChromemStore_DeleteByKind(t *testing.T) {
	ctx := context.Background()
	store, _ := NewChromemStore(newMockEmbedder(64))
	store.AddDocuments(ctx, sampleDocs())

	if err := store.DeleteByKind(ctx, "articles"); err != nil {
		t.Fatalf("DeleteByKind: %v", err)
	}
	if got := store.Count(); got != 1 {
		t.Errorf("Count after delete = %d, want 1", got)
	}
}

func TestChromemStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data", "vectordb")
	embedder := newMockEmbedder(32)

	store, _ := NewChromemStore(embedder)
	if err := store.AddDocuments(ctx, sampleDocs()); err != nil {
		t.Fatal(err)
	}
	if err := store.Persist(ctx, dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, _ := NewChromemStore(embedder)
	if err := loaded.Load(ctx, dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Count(); got != 3 {
		t.Errorf("loaded Count = %d, want 3", got)
	}

	results, err := loaded.Search(ctx, "Hyaluronic acid fillers and vascular complications", 1, SearchFilter{})
	if err != nil {
		t.Fatalf("Search after load: %v", err)
	}
	if len(results) != 1 || results[0].Document.ID != "a2" {
		t.Errorf("got %+v, want a2", results)
	}
}

func TestChromemStore_LoadMissing(t *testing.T) {
	store, _ := NewChromemStore(newMockEmbedder(8))
	err := store.Load(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoIndex) {
		t.Errorf("Load from empty directory = %v, want ErrNoIndex", err)
	}
}

func TestChromemStore_MinSimilarity(t *testing.T) {
	ctx := context.Background()
	store, _ := NewChromemStore(newMockEmbedder(64))
	if err := store.AddDocuments(ctx, sampleDocs()); err != nil {
		t.Fatal(err)
	}

	query := "Hyaluronic acid fillers and vascular complications"
	all, err := store.Search(ctx, query, 3, SearchFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("Search = %d results, %v; want 3", len(all), err)
	}

	// An exact match scores ~1; a floor just under it keeps only that hit.
	strict, err := store.Search(ctx, query, 3, SearchFilter{MinSimilarity: 0.999})
	if err != nil {
		t.Fatal(err)
	}
	if len(strict) != 1 || strict[0].Document.ID != "a2" {
		t.Errorf("got %+v, want only a2", strict)
	}
}

func TestChromemStore_LimitClamped(t *testing.T) {
	ctx := context.Background()
	store, _ := NewChromemStore(newMockEmbedder(16))
	store.AddDocuments(ctx, sampleDocs())

	results, err := store.Search(ctx, "filler", 50, SearchFilter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3", len(results))
	}
	if _, err := store.Search(ctx, "filler", 0, SearchFilter{}); err != nil {
		t.Errorf("Search with limit 0: %v", err)
	}
}
