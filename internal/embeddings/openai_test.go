package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingCall struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// fakeEmbeddingsAPI answers with vector [len(input)] per text, listed in
// reverse order to exercise index handling.
func fakeEmbeddingsAPI(t *testing.T) (*httptest.Server, *[]embeddingCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []embeddingCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		calls = append(calls, req)
		mu.Unlock()

		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(len([]rune(req.Input[i])))},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": req.Model})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestOpenAIEmbedderBatchesAndKeepsOrder(t *testing.T) {
	srv, calls := fakeEmbeddingsAPI(t)
	e := NewOpenAIEmbedder("k", ModelTextEmbedding3Small, srv.URL+"/v1")

	texts := make([]string, 70)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}
	vectors, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Len(t, (*calls)[0].Input, maxBatchSize)
	assert.Len(t, (*calls)[1].Input, 70-maxBatchSize)
	assert.Equal(t, "text-embedding-3-small", (*calls)[0].Model)

	require.Len(t, vectors, 70)
	for i, v := range vectors {
		assert.Equal(t, []float32{float32(i + 1)}, v, "vector %d", i)
	}
}

func TestOpenAIEmbedderNormalizesInput(t *testing.T) {
	srv, calls := fakeEmbeddingsAPI(t)
	e := NewOpenAIEmbedder("k", "", srv.URL+"/v1")

	_, err := e.Embed(context.Background(), []string{"  Bioestimuladores\n\nde   colágeno ", "", strings.Repeat("é", maxInputRunes+50)})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	in := (*calls)[0].Input
	assert.Equal(t, "Bioestimuladores de colágeno", in[0])
	assert.Equal(t, " ", in[1])
	assert.Len(t, []rune(in[2]), maxInputRunes)
}

func TestOpenAIEmbedderEmptyInput(t *testing.T) {
	e := NewOpenAIEmbedder("k", ModelTextEmbedding3Large, "http://127.0.0.1:1")
	vectors, err := e.Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)
	assert.Equal(t, 3072, e.Dimensions())
	assert.Equal(t, "text-embedding-3-large", e.Name())
}

func TestOpenAIEmbedderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOpenAIEmbedder("k", "", srv.URL+"/v1").Embed(context.Background(), []string{"a"})
	assert.Error(t, err)
}
