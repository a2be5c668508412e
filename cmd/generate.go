package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/catalog"
	"github.com/abhisek/itemsmith/internal/export"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/pipeline"
	"github.com/abhisek/itemsmith/internal/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of questions and write them as CSV",
	Example: `  itemsmith generate --type grammar --cefr B1 --focus "Present Perfect vs Past Simple" --batch-size 10 --out b1.csv
  itemsmith generate --cefr B2 --vocab-list words.csv --form "Collocation" --out vocab.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		jobs, err := planFromFlags(cmd)
		if err != nil {
			return err
		}

		grammarPath, _ := cmd.Flags().GetString("grammar-bank")
		vocabPath, _ := cmd.Flags().GetString("vocab-bank")
		if grammarPath == "" {
			grammarPath = cfg.Banks.Grammar
		}
		if vocabPath == "" {
			vocabPath = cfg.Banks.Vocab
		}
		banks, err := bank.LoadBanks(grammarPath, vocabPath)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := newProvider(ctx, s.EventRepo())
		if err != nil {
			return err
		}

		tablePath, _ := cmd.Flags().GetString("vocab-table")
		if tablePath == "" {
			tablePath = cfg.Banks.VocabTable
		}
		pc, err := pipelineConfig(tablePath)
		if err != nil {
			return err
		}

		gen := pipeline.New(provider, banks, pc, pipeline.WithBatchRepo(s.BatchRepo()))
		st := session.NewState(uuid.NewString())

		logger.Get().Info("Generating batch",
			zap.Int("jobs", len(jobs)),
			zap.String("type", string(jobs[0].Type)),
			zap.String("strategy", string(jobs[0].Strategy)))

		res, runErr := gen.Run(ctx, st, jobs)

		if showTrace, _ := cmd.Flags().GetBool("trace"); showTrace {
			for _, line := range st.Trace() {
				fmt.Fprintln(os.Stderr, line)
			}
		}
		if runErr != nil {
			return runErr
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			if err := export.Write(os.Stdout, res.Questions); err != nil {
				return fmt.Errorf("write CSV: %w", err)
			}
		} else {
			if err := export.WriteFile(out, res.Questions); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", len(res.Questions), out)
		}
		if res.Skipped > 0 {
			fmt.Fprintf(os.Stderr, "Skipped %d items after bad responses (see --trace)\n", res.Skipped)
		}
		fmt.Fprintf(os.Stderr, "Batch %s\n", res.BatchID)
		return nil
	},
}

// planFromFlags builds the job list from the generate flags.
func planFromFlags(cmd *cobra.Command) ([]itemgen.Job, error) {
	flags := cmd.Flags()
	cefr, _ := flags.GetString("cefr")
	level, err := itemgen.ParseLevel(cefr)
	if err != nil {
		return nil, err
	}
	topic, _ := flags.GetString("topic")

	if listPath, _ := flags.GetString("vocab-list"); listPath != "" {
		formName, _ := flags.GetString("form")
		form, err := catalog.ParseQuestionForm(formName)
		if err != nil {
			return nil, err
		}
		words, err := bank.LoadVocabFile(listPath)
		if err != nil {
			return nil, err
		}
		req := session.VocabListRequest{Words: words, CEFR: level, Form: form, Topic: topic}
		if flags.Changed("strategy") {
			name, _ := flags.GetString("strategy")
			if req.Strategy, err = itemgen.ParseStrategy(name); err != nil {
				return nil, err
			}
		}
		if flags.Changed("batch-size") {
			req.BatchSize, _ = flags.GetInt("batch-size")
		}
		return session.PlanVocabList(req)
	}

	typeName, _ := flags.GetString("type")
	qtype, err := itemgen.ParseQuestionType(typeName)
	if err != nil {
		return nil, err
	}
	strategyName, _ := flags.GetString("strategy")
	strategy, err := itemgen.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}
	size, _ := flags.GetInt("batch-size")
	if err := catalog.ValidateBatchSize(size); err != nil {
		return nil, err
	}
	foci, _ := flags.GetStringArray("focus")

	return session.Plan(session.PlanRequest{
		Total:    size,
		Type:     qtype,
		CEFR:     level,
		Foci:     foci,
		Topic:    topic,
		Strategy: strategy,
	})
}

// pipelineConfig applies the LLM settings and, when tablePath is set, loads
// the vocabulary table for vocabulary-list runs.
func pipelineConfig(tablePath string) (pipeline.Config, error) {
	pc := pipeline.DefaultConfig()
	if cfg.LLMSettings.MaxTokens > 0 {
		pc.MaxTokens = cfg.LLMSettings.MaxTokens
	}
	if cfg.LLMSettings.Temperature > 0 {
		pc.Temperature = cfg.LLMSettings.Temperature
	}
	if tablePath != "" {
		table, err := bank.LoadVocabFile(tablePath)
		if err != nil {
			return pc, fmt.Errorf("load vocabulary table: %w", err)
		}
		pc.Vocab = table
	}
	return pc, nil
}

func init() {
	f := generateCmd.Flags()
	f.StringP("type", "t", "grammar", "Question type: grammar or vocabulary")
	f.StringP("cefr", "c", "B1", "CEFR level: A1, A2, B1, B2, C1")
	f.StringArrayP("focus", "f", nil, "Assessment focus (repeatable; list them with: itemsmith focus)")
	f.String("topic", session.DefaultTopic, "Topic for every question in the batch")
	f.StringP("strategy", "s", "batch", "Strategy: batch, holistic or segmented")
	f.IntP("batch-size", "n", catalog.DefaultBatchSize, fmt.Sprintf("Number of questions %v", catalog.BatchSizes))
	f.String("grammar-bank", "", "Grammar few-shot example bank CSV (overrides banks.grammar)")
	f.String("vocab-bank", "", "Vocabulary few-shot example bank CSV (overrides banks.vocab)")
	f.String("vocab-list", "", "Vocabulary table CSV; generates one question per word")
	f.String("form", catalog.FormRandomMix, "Question form for --vocab-list runs")
	f.String("vocab-table", "", "Vocabulary table CSV distractors are drawn from (overrides banks.vocab_table)")
	f.Bool("trace", false, "Print the execution trace to stderr")
	f.StringP("out", "o", "", "Write CSV to this file instead of stdout")
}
