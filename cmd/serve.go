package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/api"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/config"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/credits"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/registry"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/worker"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer/httpapi"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"riverqueue.com/riverui"
)

// setupServer builds and starts the HTTP server and returns a function that
// stops it gracefully.
func setupServer(ctx context.Context, deps api.Deps, cfg *config.Config) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...")
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background scan workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			reg, err := registry.New(cfg.Scanner.Keys)
			if err != nil {
				logger.Fatal(ctx, "could not build scanner registry", zap.Error(err))
			}

			ledger := credits.New(strg)
			queue := scan.NewRiverQueue(strg, cfg.Scanner.MaxAttempts)
			orchestrator := scan.New(strg, ledger, reg, queue, scan.NewOptions(cfg))

			analysis := httpapi.New(
				&http.Client{Timeout: cfg.Scanner.AnalyzerTimeout},
				cfg.Scanner.AnalyzerBaseURL,
				cfg.Scanner.AnalyzerToken)

			riverClient, err := worker.Start(ctx, strg.Pool, orchestrator, analysis, strg, cfg)
			if err != nil {
				logger.Fatal(ctx, "could not start scan workers", zap.Error(err))
			}

			jobsUI, err := riverui.NewServer(&riverui.ServerOpts{
				Client: riverClient,
				DB:     strg.Pool,
				Logger: slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
				Prefix: "/jobs",
			})
			if err != nil {
				logger.Fatal(ctx, "could not create jobs UI", zap.Error(err))
			}
			if err := jobsUI.Start(ctx); err != nil {
				logger.Fatal(ctx, "could not start jobs UI", zap.Error(err))
			}

			verifier, err := api.NewTokenVerifier(cfg.JWT.PublicKey)
			if err != nil {
				logger.Fatal(ctx, "could not create token verifier", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, api.Deps{
				Orchestrator: orchestrator,
				Ledger:       ledger,
				Registry:     reg,
				Verifier:     verifier,
				JobsUI:       jobsUI,
			}, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(shutdownCtx, "stopping scan workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop scan workers", zap.Error(err))
			}
		},
	}

	return cmd
}
