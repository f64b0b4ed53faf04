// Package embeddings turns catalog text into vectors for the semantic
// article index.
package embeddings

import "context"

// Embedder returns one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}
