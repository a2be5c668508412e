// Package pipeline runs planned jobs through the LLM stages and assembles
// the final questions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/llm"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/prompt"
	"github.com/abhisek/itemsmith/internal/session"
	"github.com/abhisek/itemsmith/internal/store"
)

// Generator turns jobs into questions using an LLM provider.
type Generator struct {
	provider llm.Provider
	banks    bank.Banks
	sampler  *bank.Sampler
	rng      *rand.Rand
	batches  store.BatchRepo
	config   Config
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRand fixes the random source used for example sampling, distractor
// selection and option shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
		g.sampler = bank.NewSampler(rng)
	}
}

// WithBatchRepo stores every run, successful or not.
func WithBatchRepo(repo store.BatchRepo) Option {
	return func(g *Generator) { g.batches = repo }
}

// New creates a Generator. banks may be nil; prompts then carry no
// examples.
func New(provider llm.Provider, banks bank.Banks, cfg Config, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		banks:    banks,
		sampler:  bank.NewSampler(nil),
		config:   cfg,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Result is the outcome of a run.
type Result struct {
	BatchID   string
	Strategy  itemgen.Strategy
	Questions []itemgen.FinalQuestion
	// Skipped counts jobs the single-job strategies dropped after a bad
	// response.
	Skipped int
}

// Run executes jobs with their strategy and records everything in st.
// The previous batch in st is discarded first. Any error ends the run;
// the error is also the last trace line.
func (g *Generator) Run(ctx context.Context, st *session.State, jobs []itemgen.Job) (*Result, error) {
	if len(jobs) == 0 {
		return nil, &itemgen.PlanningError{Reason: "no jobs to run"}
	}
	strategy := jobs[0].Strategy
	if strategy == "" {
		strategy = itemgen.StrategySequentialBatch
	}
	st.Begin(strategy)

	log := logger.Get().With(
		zap.String("session", st.ID()),
		zap.String("strategy", string(strategy)),
		zap.Int("jobs", len(jobs)),
	)
	log.Info("batch started")
	start := time.Now()

	var (
		res *Result
		err error
	)
	switch strategy {
	case itemgen.StrategyHolistic:
		res, err = g.runHolistic(ctx, st, jobs)
	case itemgen.StrategySegmented:
		res, err = g.runSegmented(ctx, st, jobs)
	default:
		res, err = g.runBatch(ctx, st, jobs)
	}

	if err != nil {
		st.Tracef("ERROR: %s", err)
		log.Error("batch failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		g.persist(ctx, st, jobs, nil, err)
		return nil, err
	}

	res.Strategy = strategy
	res.BatchID = g.persist(ctx, st, jobs, res.Questions, nil)
	st.SetBatch(res.BatchID, res.Questions)
	log.Info("batch complete",
		zap.String("batch_id", res.BatchID),
		zap.Int("assembled", len(res.Questions)),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// call sends one stage prompt. Failures of the call itself become
// UpstreamError.
func (g *Generator) call(ctx context.Context, stage itemgen.Stage, p prompt.Pair) (string, error) {
	ctx = llm.WithPurpose(ctx, string(stage))

	req := llm.UserRequest(p.System, p.User)
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", &itemgen.UpstreamError{Stage: stage, Err: err}
	}
	logger.Get().Debug("stage response",
		zap.String("stage", string(stage)),
		zap.Int("chars", len(resp.Text)),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return resp.Text, nil
}

func (g *Generator) examples(job itemgen.Job) string {
	return g.sampler.Block(job, g.banks)
}

func isUpstream(err error) bool {
	var ue *itemgen.UpstreamError
	return errors.As(err, &ue)
}

func itemLabel(job itemgen.Job) string {
	return fmt.Sprintf("item %s", job.ItemNumber())
}
