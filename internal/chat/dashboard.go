// Package chat serves the browser chat UI and its WebSocket endpoint, both
// backed by the assistant pipeline.
package chat

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/assistant"
	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/usage"
)

// maxHistory bounds the turns a connection keeps server-side.
const maxHistory = 40

// maxPending bounds messages queued behind a turn in flight.
const maxPending = 8

// Chat provides the chat page, its stats endpoint and the WebSocket.
type Chat struct {
	pipeline *assistant.Pipeline
	catalog  *catalog.Store
	usage    *usage.Store
	renderer *Renderer
	logger   *zap.Logger
}

// New creates a Chat. catalogStore and usageStore may be nil; stats then
// report zeros.
func New(pipeline *assistant.Pipeline, catalogStore *catalog.Store, usageStore *usage.Store, logger *zap.Logger) *Chat {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chat{
		pipeline: pipeline,
		catalog:  catalogStore,
		usage:    usageStore,
		renderer: NewRenderer(),
		logger:   logger.Named("chat"),
	}
}

// RegisterRoutes mounts all chat routes onto the given router.
func (c *Chat) RegisterRoutes(r chi.Router) {
	r.Get("/", c.ServeIndex)
	r.Get("/api/chat/stats", c.handleStats)
	r.Get("/ws/assistant", c.handleWebSocket)
}
