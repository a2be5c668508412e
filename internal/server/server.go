// Package server exposes batch generation and the review workshop over
// HTTP.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/pipeline"
	"github.com/abhisek/itemsmith/internal/session"
	"github.com/abhisek/itemsmith/internal/store"
)

// Generator runs planned jobs for a session.
type Generator interface {
	Run(ctx context.Context, st *session.State, jobs []itemgen.Job) (*pipeline.Result, error)
}

// Config wires the handlers to their collaborators. Batches may be nil.
type Config struct {
	Sessions  *session.Registry
	Generator Generator
	Batches   store.BatchRepo
}

// Handler serves the HTTP API.
type Handler struct {
	sessions  *session.Registry
	generator Generator
	batches   store.BatchRepo

	// running holds the IDs of sessions with a batch in flight.
	running sync.Map
}

// NewHandler creates a Handler.
func NewHandler(cfg Config) *Handler {
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewRegistry()
	}
	return &Handler{
		sessions:  sessions,
		generator: cfg.Generator,
		batches:   cfg.Batches,
	}
}

// New returns the router with all routes mounted.
func New(cfg Config) http.Handler {
	h := NewHandler(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Mount("/catalog", catalogRoutes())
	r.Mount("/sessions", h.sessionRoutes())
	r.Mount("/batches", h.batchRoutes())
	return r
}

func (h *Handler) sessionRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.CreateSession)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.sessionCtx)
		r.Delete("/", h.DeleteSession)
		r.Post("/generate", h.Generate)
		r.Get("/batch", h.GetBatch)
		r.Put("/batch/{item}", h.UpdateQuestion)
		r.Get("/batch.csv", h.DownloadCSV)
		r.Post("/batch.csv", h.UploadCSV)
		r.Post("/load/{batchID}", h.LoadStoredBatch)
		r.Get("/stages", h.GetStages)
		r.Get("/trace", h.GetTrace)
		r.Delete("/trace", h.ClearTrace)
	})
	return r
}

func (h *Handler) batchRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListBatches)
	r.Get("/{batchID}", h.GetStoredBatch)
	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Get().Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
