// Package worker runs the background half of the scan lifecycle: a River
// worker pool picks up queued scans, fans their scanner fleet out against the
// analysis service and reports progress back through the orchestrator.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/config"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Start registers the scan worker and starts the River client against the
// given pool. The returned client must be stopped on shutdown.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	orchestrator scan.Orchestrator,
	analysis analyzer.Client,
	store storage.Storage,
	cfg *config.Config) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewScanWorker(orchestrator, analysis, store, cfg.Scanner.AnalyzerTimeout))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.Scanner.WorkerCount},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
