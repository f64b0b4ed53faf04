package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/llm"
)

const maxBodyBytes = 1 << 20

// Paths the assistant answers on. The second matches the hosted function
// name existing clients call.
const (
	Path      = "/api/assistant"
	AliasPath = "/functions/v1/mega-cerebro-ai"
)

// RegisterRoutes mounts the assistant endpoint on the given router.
func RegisterRoutes(r chi.Router, p *Pipeline, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := handleAssistant(p, logger.Named("assistant.http"))
	r.Post(Path, h)
	r.Post(AliasPath, h)
}

func handleAssistant(p *Pipeline, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
			return
		}

		resp, err := p.Run(r.Context(), req)
		if err != nil {
			status, body := errorResponse(err)
			if status == 0 {
				logger.Info("request cancelled by client", zap.Error(err))
				return
			}
			logger.Error("assistant request failed",
				zap.Int("status", status),
				zap.String("kind", body.Kind),
				zap.Error(err),
			)
			writeJSON(w, status, body)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// errorResponse maps a pipeline error to an HTTP status and body. A zero
// status means the client is gone and nothing should be written.
func errorResponse(err error) (int, errorBody) {
	kind := ErrorKind(err)
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, llm.ErrUnknownTier):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	case errors.Is(err, llm.ErrCancelled):
		return 0, errorBody{}
	case errors.Is(err, llm.ErrTimeout):
		return http.StatusGatewayTimeout, errorBody{Error: "a geração da resposta excedeu o tempo limite", Kind: kind}
	case errors.Is(err, llm.ErrConfiguration):
		return http.StatusInternalServerError, errorBody{Error: "o assistente não está configurado corretamente", Kind: kind}
	case errors.Is(err, llm.ErrUpstream):
		return http.StatusInternalServerError, errorBody{Error: "o serviço de geração de texto falhou", Kind: kind}
	default:
		return http.StatusInternalServerError, errorBody{Error: "erro interno", Kind: kind}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
