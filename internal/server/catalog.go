package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/itemsmith/internal/catalog"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/session"
)

func catalogRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/foci", listFoci)
	r.Get("/topics", listTopics)
	r.Get("/options", listOptions)
	return r
}

func listFoci(w http.ResponseWriter, r *http.Request) {
	qt, err := itemgen.ParseQuestionType(r.URL.Query().Get("type"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	level, err := itemgen.ParseLevel(r.URL.Query().Get("cefr"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":  qt,
		"cefr":  level,
		"focus": nonNil(catalog.Foci(qt, level)),
	})
}

func listTopics(w http.ResponseWriter, r *http.Request) {
	level, err := itemgen.ParseLevel(r.URL.Query().Get("cefr"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cefr":    level,
		"topics":  nonNil(catalog.Topics(level)),
		"default": session.DefaultTopic,
	})
}

func listOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"levels":             itemgen.Levels,
		"types":              []itemgen.QuestionType{itemgen.Grammar, itemgen.Vocabulary},
		"strategies":         itemgen.Strategies,
		"batch_sizes":        catalog.BatchSizes,
		"default_batch_size": catalog.DefaultBatchSize,
		"question_forms":     catalog.QuestionForms,
	})
}
