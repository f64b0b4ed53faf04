package chat

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/usage"
)

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	Catalog          map[catalog.Kind]int `json:"catalog"`
	Requests         int                  `json:"requests"`
	Failures         int                  `json:"failures"`
	TotalTokens      int                  `json:"total_tokens"`
	EstimatedCostUSD float64              `json:"estimated_cost_usd"`
}

func (c *Chat) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := statsResponse{Catalog: map[catalog.Kind]int{}}

	if c.catalog != nil {
		counts, err := c.catalog.Counts(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Catalog = counts
	}

	if c.usage != nil {
		rows, err := c.usage.Summary(ctx, usage.SummaryFilter{})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		for _, row := range rows {
			resp.Requests += row.Requests
			resp.Failures += row.Failures
			resp.TotalTokens += row.TotalTokens
			resp.EstimatedCostUSD += row.EstimatedCostUSD
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
