package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/config"
	"github.com/abhisek/itemsmith/internal/llm"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/store"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "itemsmith",
	Short: "CEFR multiple-choice item generator",
	Long: "itemsmith drafts grammar and vocabulary multiple-choice questions for English tests\n" +
		"with a three-stage LLM pipeline, then lets a reviewer refine and export them.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			loaded.Log.Level = lvl
		}
		if err := logger.Initialize(logger.Config{Level: loaded.Log.Level, Format: loaded.Log.Format}); err != nil {
			return err
		}
		if loaded.File != "" {
			logger.Get().Debug("Loaded config", zap.String("file", loaded.File))
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ITEMSMITH_DB and config)")
	rootCmd.PersistentFlags().String("config", "", "Path to itemsmith.yaml (default: search ., $XDG_CONFIG_HOME/itemsmith, ~/.config/itemsmith)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(batchesCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db config key, then ITEMSMITH_DB or the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the database the flags and config point at.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider builds the configured provider, logging calls to repo.
func newProvider(ctx context.Context, repo store.EventRepo) (llm.Provider, error) {
	lc := cfg.LLM()
	if err := lc.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	p, err := llm.NewProvider(ctx, lc, repo)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("LLM provider ready",
		zap.String("provider", lc.Provider), zap.String("model", p.ModelID()))
	return p, nil
}
