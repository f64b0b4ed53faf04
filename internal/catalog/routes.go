package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts read-only catalog endpoints under /api/catalog.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", handleCounts(store))
		r.Get("/{kind}", handleSearch(store))
	})
}

func handleCounts(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := store.Counts(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

func handleSearch(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		terms := strings.Fields(q.Get("q"))
		limit := MaxLimit
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		var (
			result any
			err    error
		)
		ctx := r.Context()
		switch Kind(chi.URLParam(r, "kind")) {
		case KindCourses:
			result, err = store.SearchCourses(ctx, terms, limit)
		case KindEquipment:
			result, err = store.SearchEquipment(ctx, terms, limit)
		case KindVideos:
			result, err = store.SearchVideos(ctx, terms, limit)
		case KindArticles:
			result, err = store.SearchArticles(ctx, terms, limit)
		case KindExamples, "examples":
			result, err = store.SearchExamples(ctx, q.Get("format"), terms, limit)
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown catalog kind"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
