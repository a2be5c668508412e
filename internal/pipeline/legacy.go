package pipeline

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/prompt"
	"github.com/abhisek/itemsmith/internal/session"
)

// questionFunc produces one question for one job.
type questionFunc func(ctx context.Context, job itemgen.Job) (itemgen.FinalQuestion, error)

// runHolistic writes each question in one call.
func (g *Generator) runHolistic(ctx context.Context, st *session.State, jobs []itemgen.Job) (*Result, error) {
	st.Tracef("HOLISTIC MODE - STARTING")
	return g.runEach(ctx, st, jobs, g.holistic)
}

// runSegmented writes the options first, then a stem for them.
func (g *Generator) runSegmented(ctx context.Context, st *session.State, jobs []itemgen.Job) (*Result, error) {
	st.Tracef("SEGMENTED MODE - STARTING")
	return g.runEach(ctx, st, jobs, g.segmented)
}

// runEach runs one job at a time. A bad response skips that job; a failed
// call ends the run. A run that assembles nothing returns the last error.
func (g *Generator) runEach(ctx context.Context, st *session.State, jobs []itemgen.Job, fn questionFunc) (*Result, error) {
	st.Tracef("Batch size: %d questions", len(jobs))

	res := &Result{}
	var lastErr error
	for _, job := range jobs {
		q, err := fn(ctx, job)
		if err != nil {
			if isUpstream(err) {
				return nil, err
			}
			lastErr = err
			res.Skipped++
			st.Tracef("Skipped %s: %s", itemLabel(job), err)
			logger.Get().Warn("job skipped",
				zap.String("item", string(job.ItemNumber())),
				zap.Error(err),
			)
			continue
		}
		res.Questions = append(res.Questions, q)
		st.Tracef("Assembled question %d", len(res.Questions))
	}

	if len(res.Questions) == 0 {
		return nil, lastErr
	}
	st.Tracef("TOTAL ASSEMBLED: %d", len(res.Questions))
	return res, nil
}

func (g *Generator) holistic(ctx context.Context, job itemgen.Job) (itemgen.FinalQuestion, error) {
	raw, err := g.call(ctx, itemgen.StageHolistic, prompt.Holistic(job, g.examples(job)))
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}
	q, err := itemgen.DecodeQuestion(itemgen.StageHolistic, raw, job, g.config.Validators.Question)
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}
	q.ItemNumber = job.ItemNumber()
	return q, nil
}

func (g *Generator) segmented(ctx context.Context, job itemgen.Job) (itemgen.FinalQuestion, error) {
	raw, err := g.call(ctx, itemgen.StageOptions, prompt.Options(job))
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}
	opts, err := itemgen.DecodeOptions(raw)
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}
	optsJSON, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}

	raw, err = g.call(ctx, itemgen.StageStem, prompt.Stem(job, string(optsJSON), g.examples(job)))
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}
	q, err := itemgen.DecodeStem(raw, job, g.config.Validators.Question)
	if err != nil {
		return itemgen.FinalQuestion{}, err
	}

	// The options were fixed by the first call.
	q.ItemNumber = job.ItemNumber()
	q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD = opts.AnswerA, opts.AnswerB, opts.AnswerC, opts.AnswerD
	q.CorrectAnswer = opts.CorrectAnswer
	return q, nil
}
