package usage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/cerebro/internal/db"
	"github.com/ziadkadry99/cerebro/internal/llm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreInsertAndRecent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, Record{
		ServiceName: "mega-cerebro-ai",
		Category:    "learning",
		Model:       "gpt-4o-mini",
		Usage:       llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
		Success:     true,
		UserID:      "u1",
	}))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.True(t, got[0].Success)
	assert.Equal(t, 150, got[0].Usage.TotalTokens)
	assert.Equal(t, "u1", got[0].UserID)
	assert.False(t, got[0].RecordedAt.IsZero())
}

func TestStoreSummary(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	records := []Record{
		{ServiceName: "svc", Category: "learning", Model: "gpt-4o-mini", Usage: llm.Usage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500}, ResponseTimeMs: 100, Success: true},
		{ServiceName: "svc", Category: "learning", Model: "gpt-4o-mini", Usage: llm.Usage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500}, ResponseTimeMs: 300, Success: true},
		{ServiceName: "svc", Category: "learning", Model: "gpt-4o-mini", ResponseTimeMs: 200, Success: false, ErrorKind: "upstream"},
		{ServiceName: "other", Category: "general", Model: "gpt-5", Success: true},
	}
	for _, r := range records {
		require.NoError(t, store.Insert(ctx, r))
	}

	rows, err := store.Summary(ctx, SummaryFilter{ServiceName: "svc"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 3, row.Requests)
	assert.Equal(t, 1, row.Failures)
	assert.Equal(t, 2000, row.PromptTokens)
	assert.Equal(t, 3000, row.TotalTokens)
	assert.InDelta(t, 200.0, row.AvgResponseTimeMs, 0.001)
	assert.InDelta(t, llm.EstimateCost("gpt-4o-mini", 2000, 1000), row.EstimatedCostUSD, 1e-12)

	all, err := store.Summary(ctx, SummaryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	future := time.Now().Add(time.Hour)
	none, err := store.Summary(ctx, SummaryFilter{Since: &future})
	require.NoError(t, err)
	assert.Empty(t, none)
}

// memorySink collects records and can fail or panic on demand.
type memorySink struct {
	mu      sync.Mutex
	records []Record
	err     error
	panic   bool
	block   chan struct{}
}

func (s *memorySink) Insert(_ context.Context, r Record) error {
	if s.block != nil {
		<-s.block
	}
	if s.panic {
		panic("disk on fire")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

func (s *memorySink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestRecorderDrainsOnClose(t *testing.T) {
	sink := &memorySink{}
	rec := NewRecorder(sink, zap.NewNop(), 16)
	rec.Start(context.Background())

	for i := 0; i < 10; i++ {
		rec.Record(Record{Category: "learning"})
	}
	rec.Close()

	assert.Equal(t, 10, sink.len())
}

func TestRecorderSwallowsWriteErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sink := &memorySink{err: errors.New("database is locked")}
	rec := NewRecorder(sink, zap.New(core), 4)
	rec.Start(context.Background())

	rec.Record(Record{Category: "general"})
	rec.Close()

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], ErrMetricsWrite.Error())
}

func TestRecorderRecoversFromPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sink := &memorySink{panic: true}
	rec := NewRecorder(sink, zap.New(core), 4)
	rec.Start(context.Background())

	rec.Record(Record{})
	rec.Record(Record{})
	rec.Close()

	assert.Equal(t, 2, logs.FilterMessage("usage sink panicked").Len())
}

func TestRecorderNeverBlocks(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := &memorySink{block: make(chan struct{})}
	rec := NewRecorder(sink, zap.New(core), 1)
	rec.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			rec.Record(Record{Category: "learning"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a stalled sink")
	}

	close(sink.block)
	rec.Close()
	assert.NotZero(t, logs.FilterMessage("usage record dropped: queue full").Len())
}

func TestRecorderStopsOnContextCancel(t *testing.T) {
	sink := &memorySink{}
	rec := NewRecorder(sink, nil, 8)
	ctx, cancel := context.WithCancel(context.Background())
	rec.Start(ctx)

	rec.Record(Record{})
	cancel()
	rec.Close()

	rec.Record(Record{}) // after close: dropped, no panic
}

func TestRecorderCloseWithoutStart(t *testing.T) {
	rec := NewRecorder(&memorySink{}, nil, 2)
	rec.Record(Record{})
	rec.Close()
	rec.Close()
}

func TestSummaryRoute(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.Insert(context.Background(), Record{ServiceName: "svc", Category: "learning", Model: "gpt-4o-mini", Success: true}))

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usage/summary?service=svc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var rows []SummaryRow
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Requests)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usage/recent", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSummaryRouteRejectsBadSince(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, setupStore(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usage/summary?since=yesterday", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usage/summary?since=2026-01-02T15:04:05Z", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
