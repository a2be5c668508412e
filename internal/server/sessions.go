package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/catalog"
	"github.com/abhisek/itemsmith/internal/export"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/session"
)

type ctxKey struct{}

// sessionCtx resolves {id} to a session or answers 404.
func (h *Handler) sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, ok := h.sessions.Get(chi.URLParam(r, "id"))
		if !ok {
			notFound(w, "session not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, st)))
	})
}

func stateFrom(r *http.Request) *session.State {
	return r.Context().Value(ctxKey{}).(*session.State)
}

type sessionResponse struct {
	ID string `json:"id"`
}

type batchResponse struct {
	BatchID   string                  `json:"batch_id"`
	Strategy  string                  `json:"strategy,omitempty"`
	Questions []itemgen.FinalQuestion `json:"questions"`
	Skipped   int                     `json:"skipped,omitempty"`
	Trace     []string                `json:"trace,omitempty"`
}

type stagesResponse struct {
	Stage1 []itemgen.Stage1Record `json:"stage1"`
	Stage2 []itemgen.Stage2Record `json:"stage2"`
	Stage3 []itemgen.Stage3Record `json:"stage3"`
}

type traceResponse struct {
	Trace []string `json:"trace"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	st := h.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: st.ID()})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(stateFrom(r).ID())
	w.WriteHeader(http.StatusNoContent)
}

type vocabWord struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"part_of_speech"`
}

type generateRequest struct {
	BatchSize int         `json:"batch_size"`
	Type      string      `json:"type"`
	CEFR      string      `json:"cefr"`
	Foci      []string    `json:"foci"`
	Topic     string      `json:"topic"`
	Strategy  string      `json:"strategy"`
	VocabList []vocabWord `json:"vocab_list"`
	Form      string      `json:"form"`
}

// plan turns a request into jobs. Every rejection is a PlanningError.
func (req generateRequest) plan() ([]itemgen.Job, error) {
	planErr := func(err error) error {
		return &itemgen.PlanningError{Reason: err.Error()}
	}

	level, err := itemgen.ParseLevel(req.CEFR)
	if err != nil {
		return nil, planErr(err)
	}

	if len(req.VocabList) > 0 {
		form, err := catalog.ParseQuestionForm(req.Form)
		if err != nil {
			return nil, planErr(err)
		}
		words := make([]bank.VocabEntry, 0, len(req.VocabList))
		for _, v := range req.VocabList {
			if w := strings.TrimSpace(v.Word); w != "" {
				words = append(words, bank.VocabEntry{Word: w, PartOfSpeech: strings.TrimSpace(v.PartOfSpeech)})
			}
		}
		vreq := session.VocabListRequest{Words: words, CEFR: level, Form: form, Topic: req.Topic, BatchSize: req.BatchSize}
		if strings.TrimSpace(req.Strategy) != "" {
			if vreq.Strategy, err = itemgen.ParseStrategy(req.Strategy); err != nil {
				return nil, planErr(err)
			}
		}
		return session.PlanVocabList(vreq)
	}

	size := req.BatchSize
	if size == 0 {
		size = catalog.DefaultBatchSize
	}
	if err := catalog.ValidateBatchSize(size); err != nil {
		return nil, planErr(err)
	}
	qt, err := itemgen.ParseQuestionType(req.Type)
	if err != nil {
		return nil, planErr(err)
	}
	strategy, err := itemgen.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, planErr(err)
	}
	return session.Plan(session.PlanRequest{
		Total:    size,
		Type:     qt,
		CEFR:     level,
		Foci:     req.Foci,
		Topic:    req.Topic,
		Strategy: strategy,
	})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	jobs, err := req.plan()
	if err != nil {
		writeError(w, err, nil)
		return
	}

	if _, busy := h.running.LoadOrStore(st.ID(), true); busy {
		writeJSON(w, http.StatusConflict, errorBody{Error: "a batch is already running for this session"})
		return
	}
	defer h.running.Delete(st.ID())

	res, err := h.generator.Run(r.Context(), st, jobs)
	if err != nil {
		writeError(w, err, st.Trace())
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{
		BatchID:   res.BatchID,
		Strategy:  string(res.Strategy),
		Questions: res.Questions,
		Skipped:   res.Skipped,
		Trace:     st.Trace(),
	})
}

func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	snap := stateFrom(r).Snapshot()
	qs := snap.Questions
	if qs == nil {
		qs = []itemgen.FinalQuestion{}
	}
	writeJSON(w, http.StatusOK, batchResponse{
		BatchID:   snap.BatchID,
		Strategy:  string(snap.Strategy),
		Questions: qs,
	})
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	item := itemgen.ItemNumber(chi.URLParam(r, "item"))

	var q itemgen.FinalQuestion
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	q.CorrectAnswer = strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
	if verr := (&itemgen.OptionSetValidator{}).Validate(&q, itemgen.Job{}); verr != nil {
		badRequest(w, verr.Error())
		return
	}
	if err := st.UpdateQuestion(item, q); err != nil {
		notFound(w, err.Error())
		return
	}
	q.ItemNumber = item
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="questions.csv"`)
	if err := export.Write(w, st.Questions()); err != nil {
		logger.Get().Warn("write csv", zap.Error(err))
	}
}

// UploadCSV replaces the session batch with an uploaded CSV, sent either
// as the raw body or as the "file" field of a multipart form.
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)

	var body io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		f, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "missing file field")
			return
		}
		defer f.Close()
		body = f
	}

	qs, err := export.Read(body)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	id := uuid.NewString()
	st.LoadBatch(id, qs)
	st.Tracef("Loaded %d questions from CSV", len(qs))
	writeJSON(w, http.StatusOK, batchResponse{BatchID: id, Questions: qs})
}

// LoadStoredBatch makes a persisted run the session's current batch.
func (h *Handler) LoadStoredBatch(w http.ResponseWriter, r *http.Request) {
	if h.batches == nil {
		notFound(w, "batch storage is not configured")
		return
	}
	st := stateFrom(r)
	rec, err := h.batches.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	var qs []itemgen.FinalQuestion
	if len(rec.Questions) > 0 {
		if err := json.Unmarshal(rec.Questions, &qs); err != nil {
			writeError(w, fmt.Errorf("decode stored batch: %w", err), nil)
			return
		}
	}
	st.LoadBatch(rec.ID, qs)
	st.Tracef("Loaded %d questions from batch %s", len(qs), rec.ID)
	writeJSON(w, http.StatusOK, batchResponse{BatchID: rec.ID, Strategy: rec.Strategy, Questions: qs})
}

func (h *Handler) GetStages(w http.ResponseWriter, r *http.Request) {
	snap := stateFrom(r).Snapshot()
	writeJSON(w, http.StatusOK, stagesResponse{
		Stage1: nonNil(snap.Stage1),
		Stage2: nonNil(snap.Stage2),
		Stage3: nonNil(snap.Stage3),
	})
}

func (h *Handler) GetTrace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, traceResponse{Trace: nonNil(stateFrom(r).Trace())})
}

func (h *Handler) ClearTrace(w http.ResponseWriter, r *http.Request) {
	stateFrom(r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
