package assistant

import (
	"encoding/json"
	"errors"

	"github.com/ziadkadry99/cerebro/internal/llm"
)

// ErrInvalidRequest marks a request body the pipeline cannot run.
var ErrInvalidRequest = errors.New("invalid request")

// Turn is one conversation message as sent by clients.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the inbound assistant call.
type Request struct {
	Messages    []Turn `json:"messages"`
	UserProfile string `json:"userProfile,omitempty"`
	ModelTier   string `json:"modelTier,omitempty"`
	UserID      string `json:"userId,omitempty"`
}

// Response is the assistant answer plus intent metadata. Counters are
// category specific (e.g. courses_found) and serialize at the top level.
type Response struct {
	Content    string
	Intent     string
	Confidence float64
	Keywords   []string
	Model      string
	Usage      llm.Usage
	Counters   map[string]int
}

// reservedKeys may not be shadowed by a counter.
var reservedKeys = map[string]bool{
	"content": true, "intent": true, "confidence": true,
	"keywords": true, "model": true, "usage": true,
}

func (r Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Counters)+6)
	for k, v := range r.Counters {
		if !reservedKeys[k] {
			out[k] = v
		}
	}
	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	out["content"] = r.Content
	out["intent"] = r.Intent
	out["confidence"] = r.Confidence
	out["keywords"] = keywords
	out["model"] = r.Model
	out["usage"] = r.Usage
	return json.Marshal(out)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := map[string]any{
		"content":    &r.Content,
		"intent":     &r.Intent,
		"confidence": &r.Confidence,
		"keywords":   &r.Keywords,
		"model":      &r.Model,
		"usage":      &r.Usage,
	}
	for k, v := range raw {
		if dst, ok := fields[k]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return err
			}
			continue
		}
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			if r.Counters == nil {
				r.Counters = map[string]int{}
			}
			r.Counters[k] = n
		}
	}
	return nil
}
