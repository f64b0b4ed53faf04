package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/assistant"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type        string           `json:"type"` // "message" or "reset"
	Content     string           `json:"content,omitempty"`
	Messages    []assistant.Turn `json:"messages,omitempty"`
	ModelTier   string           `json:"modelTier,omitempty"`
	UserProfile string           `json:"userProfile,omitempty"`
	UserID      string           `json:"userId,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type        string         `json:"type"` // "response", "reset" or "error"
	Content     string         `json:"content"`
	ContentHTML string         `json:"content_html,omitempty"`
	Intent      string         `json:"intent,omitempty"`
	Confidence  float64        `json:"confidence,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	Model       string         `json:"model,omitempty"`
	Counters    map[string]int `json:"counters,omitempty"`
	Kind        string         `json:"kind,omitempty"`
}

func (c *Chat) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	// The router's request timeout must not end a long-lived socket; each
	// generation is bounded by the gateway instead. Closing the socket
	// cancels the turn in flight.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	msgs := make(chan []byte, maxPending)
	go c.readLoop(ctx, cancel, conn, msgs)

	// Connection-scoped history for clients that only send the new turn.
	var history []assistant.Turn

	for msg := range msgs {
		if ctx.Err() != nil {
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.sendError(conn, "invalid message format", "invalid_request")
			continue
		}

		switch req.Type {
		case "reset":
			history = nil
			c.send(conn, chatResponse{Type: "reset"})
		case "message", "":
			history = c.handleMessage(ctx, conn, req, history)
		default:
			c.sendError(conn, "unknown message type: "+req.Type, "invalid_request")
		}
	}
}

// readLoop keeps reading while turns are generated, so a closed socket is
// noticed mid-turn. It cancels ctx and closes msgs when reading stops.
func (c *Chat) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, msgs chan<- []byte) {
	defer close(msgs)
	defer cancel()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}
		select {
		case msgs <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// handleMessage runs one turn and returns the updated connection history.
func (c *Chat) handleMessage(ctx context.Context, conn *websocket.Conn, req chatRequest, history []assistant.Turn) []assistant.Turn {
	if c.pipeline == nil {
		c.sendError(conn, "assistant not configured", "configuration")
		return history
	}

	turns := req.Messages
	useHistory := len(turns) == 0
	if useHistory {
		if strings.TrimSpace(req.Content) == "" {
			c.sendError(conn, "content is required", "invalid_request")
			return history
		}
		turns = append(append([]assistant.Turn(nil), history...), assistant.Turn{Role: "user", Content: req.Content})
	}

	resp, err := c.pipeline.Run(ctx, assistant.Request{
		Messages:    turns,
		UserProfile: req.UserProfile,
		ModelTier:   req.ModelTier,
		UserID:      req.UserID,
	})
	if err != nil {
		kind := assistant.ErrorKind(err)
		if kind == "cancelled" {
			return history
		}
		c.logger.Error("chat turn failed", zap.String("kind", kind), zap.Error(err))
		msg := "falha ao gerar resposta"
		if kind == "invalid_request" {
			msg = err.Error()
		}
		c.sendError(conn, msg, kind)
		return history
	}

	c.send(conn, chatResponse{
		Type:        "response",
		Content:     resp.Content,
		ContentHTML: c.renderer.Render(resp.Content),
		Intent:      resp.Intent,
		Confidence:  resp.Confidence,
		Keywords:    resp.Keywords,
		Model:       resp.Model,
		Counters:    resp.Counters,
	})

	if !useHistory {
		return history
	}
	history = append(turns, assistant.Turn{Role: "assistant", Content: resp.Content})
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return history
}

func (c *Chat) send(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		c.logger.Warn("websocket write", zap.Error(err))
	}
}

func (c *Chat) sendError(conn *websocket.Conn, message, kind string) {
	c.send(conn, chatResponse{Type: "error", Content: message, Kind: kind})
}
