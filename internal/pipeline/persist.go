package pipeline

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/session"
	"github.com/abhisek/itemsmith/internal/store"
)

// StageTables is the stored form of a run's intermediate records.
type StageTables struct {
	Stage1 []itemgen.Stage1Record `json:"stage1,omitempty"`
	Stage2 []itemgen.Stage2Record `json:"stage2,omitempty"`
	Stage3 []itemgen.Stage3Record `json:"stage3,omitempty"`
}

// persist records the run and returns its batch ID. Without a repository,
// or when saving fails, a fresh ID is returned and the run is not stored.
func (g *Generator) persist(ctx context.Context, st *session.State, jobs []itemgen.Job, qs []itemgen.FinalQuestion, runErr error) string {
	if g.batches == nil {
		return uuid.NewString()
	}

	snap := st.Snapshot()
	job := jobs[0]
	rec := &store.BatchRecord{
		BatchSummary: store.BatchSummary{
			SessionID:    snap.ID,
			Strategy:     string(snap.Strategy),
			QuestionType: string(job.Type),
			CEFR:         string(job.CEFR),
			Topic:        job.Topic,
			Requested:    len(jobs),
			Assembled:    len(qs),
			Status:       store.BatchStatusComplete,
		},
		Trace: snap.Trace,
	}
	if runErr != nil {
		rec.Status = store.BatchStatusFailed
		rec.ErrorMessage = runErr.Error()
	}

	var err error
	if qs != nil {
		if rec.Questions, err = json.Marshal(qs); err != nil {
			logger.Get().Warn("encode questions", zap.Error(err))
		}
	}
	rec.Stages, err = json.Marshal(StageTables{Stage1: snap.Stage1, Stage2: snap.Stage2, Stage3: snap.Stage3})
	if err != nil {
		logger.Get().Warn("encode stage tables", zap.Error(err))
	}

	// A cancelled request still gets its run recorded.
	if err := g.batches.SaveBatch(context.WithoutCancel(ctx), rec); err != nil {
		logger.Get().Error("save batch", zap.Error(err))
		return uuid.NewString()
	}
	return rec.ID
}
