package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/itemsmith/internal/store"
)

func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	if h.batches == nil {
		writeJSON(w, http.StatusOK, []store.BatchSummary{})
		return
	}
	opts := store.QueryOpts{Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}
	list, err := h.batches.ListBatches(r.Context(), opts)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *Handler) GetStoredBatch(w http.ResponseWriter, r *http.Request) {
	if h.batches == nil {
		notFound(w, "batch storage is not configured")
		return
	}
	rec, err := h.batches.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
