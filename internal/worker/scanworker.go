package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/metrics"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// ScanWorker processes one scan job: it marks the scan running, runs every
// scanner in the scan's snapshot against the analysis service in parallel,
// records the validated results and settles the terminal state.
//
// Failure semantics per scanner:
//   - a rejected payload is final for this scanner; siblings are unaffected
//   - a transient analysis error leaves the scanner unrecorded; the job
//     returns an error so River retries it, skipping scanners that already
//     have a stored result
//
// On the last attempt the scan is finalized regardless: complete when at
// least one result exists, failed otherwise. The scan is never re-charged
// and never refunded here; only enqueue failures are compensated.
type ScanWorker struct {
	river.WorkerDefaults[scan.JobArgs]

	orchestrator scan.Orchestrator
	analysis     analyzer.Client
	store        storage.Storage
	// analyzerTimeout bounds one scanner's analysis call.
	analyzerTimeout time.Duration
}

// NewScanWorker constructs a ScanWorker with the given collaborators.
func NewScanWorker(orchestrator scan.Orchestrator,
	analysis analyzer.Client,
	store storage.Storage,
	analyzerTimeout time.Duration) *ScanWorker {
	return &ScanWorker{
		orchestrator:    orchestrator,
		analysis:        analysis,
		store:           store,
		analyzerTimeout: analyzerTimeout,
	}
}

// Work executes a single scan job.
func (w *ScanWorker) Work(ctx context.Context, job *river.Job[scan.JobArgs]) error {
	scanID := domain.ScanID(job.Args.ScanID)
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("scanID", job.Args.ScanID.String()),
		zap.Int("attempt", job.Attempt))

	if err := w.orchestrator.MarkRunning(ctx, scanID); err != nil {
		return fmt.Errorf("could not mark scan running: %w", err)
	}

	// On a retry, scanners that already stored a result are done for good.
	done, err := w.storedScanners(ctx, scanID)
	if err != nil {
		return err
	}

	pending := make([]string, 0, len(job.Args.ScannerKeys))
	for _, key := range job.Args.ScannerKeys {
		if _, ok := done[key]; !ok {
			pending = append(pending, key)
		}
	}

	transient := w.runScanners(ctx, scanID, job.Args, pending)

	lastAttempt := job.Attempt >= job.MaxAttempts
	if len(transient) > 0 && !lastAttempt {
		// leave the scan running; River retries with backoff and the next
		// attempt picks up only the unrecorded scanners
		return fmt.Errorf("%d of %d scanners failed transiently: %w",
			len(transient), len(pending), errors.Join(transient...))
	}

	if len(transient) > 0 && lastAttempt {
		stored, err := w.storedScanners(ctx, scanID)
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			// attempts exhausted without a single result: record why
			reason := errors.Join(transient...).Error()
			if err := w.orchestrator.MarkFailed(ctx, scanID, reason); err != nil {
				return fmt.Errorf("could not mark exhausted scan failed: %w", err)
			}
			logger.Warn(ctx, "scan exhausted all attempts without results")

			return nil
		}
	}

	finalScan, err := w.orchestrator.Finalize(ctx, scanID)
	if err != nil {
		return fmt.Errorf("could not finalize scan: %w", err)
	}
	logger.Info(ctx, "scan settled", zap.String("status", string(finalScan.Status)))

	return nil
}

// storedScanners returns the set of scanner keys that already have a
// persisted result for the scan.
func (w *ScanWorker) storedScanners(ctx context.Context, scanID domain.ScanID) (map[string]struct{}, error) {
	results, err := w.store.ScanResults(ctx, scanID, "")
	if err != nil {
		return nil, fmt.Errorf("could not get existing results: %w", err)
	}

	done := make(map[string]struct{}, len(results))
	for _, r := range results {
		done[r.ScannerKey] = struct{}{}
	}

	return done, nil
}

// runScanners fans the pending scanners out in parallel and returns the
// transient errors. Validation rejections are final and are not returned:
// the scanner is simply absent from the report.
func (w *ScanWorker) runScanners(ctx context.Context,
	scanID domain.ScanID,
	args scan.JobArgs,
	pending []string) []error {
	scanType := domain.DetermineScanType(len(args.Domains) - 1)

	var (
		mu        sync.Mutex
		transient []error
		wg        sync.WaitGroup
	)
	for _, key := range pending {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := w.runScanner(ctx, scanID, key, args, scanType); err != nil {
				if errors.Is(err, serrors.ErrScannerValidationFailed) {
					logger.Warn(ctx, "scanner payload rejected",
						zap.String("scannerKey", key), zap.Error(err))

					return
				}

				logger.Error(ctx, "scanner failed",
					zap.String("scannerKey", key), zap.Error(err))
				metrics.ScannerResults.WithLabelValues(key, metrics.OutcomeFailed).Inc()

				mu.Lock()
				transient = append(transient, fmt.Errorf("scanner %q: %w", key, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return transient
}

// runScanner executes one scanner against the analysis service and records
// the result through the orchestrator.
func (w *ScanWorker) runScanner(ctx context.Context,
	scanID domain.ScanID,
	key string,
	args scan.JobArgs,
	scanType domain.ScanType) error {
	callCtx := ctx
	if w.analyzerTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.analyzerTimeout)
		defer cancel()
	}

	resp, err := w.analysis.Analyze(callCtx, analyzer.Request{
		ScannerKey: key,
		TargetURL:  args.Domains[0],
		PrimaryURL: args.Domains[0],
		ScanType:   string(scanType),
		Peers:      args.Domains[1:],
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if _, err := w.orchestrator.RecordScannerResult(ctx, scanID, key, resp.Output, resp.PromptLog); err != nil {
		return err
	}

	return nil
}
