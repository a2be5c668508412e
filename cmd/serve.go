package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/logger"
	"github.com/abhisek/itemsmith/internal/pipeline"
	"github.com/abhisek/itemsmith/internal/server"
	"github.com/abhisek/itemsmith/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation and review HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		banks, err := bank.LoadBanks(cfg.Banks.Grammar, cfg.Banks.Vocab)
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

		pc, err := pipelineConfig(cfg.Banks.VocabTable)
		if err != nil {
			return err
		}
		gen := pipeline.New(provider, banks, pc, pipeline.WithBatchRepo(s.BatchRepo()))
		srv := &http.Server{
			Addr: addr,
			Handler: server.New(server.Config{
				Sessions:  session.NewRegistry(),
				Generator: gen,
				Batches:   s.BatchRepo(),
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Get().Info("Listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Get().Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
