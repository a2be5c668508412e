package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/store"
)

type errorBody struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Trace []string `json:"trace,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Warn("encode response", zap.Error(err))
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	var (
		planning *itemgen.PlanningError
		parse    *itemgen.ParseError
		extract  *itemgen.ExtractionError
		count    *itemgen.CountMismatch
		upstream *itemgen.UpstreamError
	)
	switch {
	case errors.As(err, &planning):
		return http.StatusBadRequest, "planning"
	case errors.As(err, &upstream):
		return http.StatusServiceUnavailable, "upstream"
	case errors.As(err, &count):
		return http.StatusBadGateway, "count_mismatch"
	case errors.As(err, &extract):
		return http.StatusBadGateway, "extraction"
	case errors.As(err, &parse):
		return http.StatusBadGateway, "parse"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, ""
}

func writeError(w http.ResponseWriter, err error, trace []string) {
	status, kind := statusFor(err)
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: kind, Trace: trace})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: msg})
}
