// Package scan implements the scan lifecycle orchestrator. The submission
// path is a small saga: charge the ledger and create the scan in one
// database transaction, then hand the job to the queue. When the handoff
// fails after the charge committed, the orchestrator issues a compensating
// refund exactly once and marks the scan failed.
package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/config"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/credits"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/registry"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/report"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/metrics"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultScanPageLimit is the page size used when UserScans is called with
// limit 0.
const DefaultScanPageLimit = 20

// Options configure orchestrator behavior that varies per deployment.
type Options struct {
	// Environment is the running environment; prompt logs are only exposed
	// to non-admins in development.
	Environment string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Environment: cfg.Environment,
	}
}

// orchestrator is the concrete Orchestrator implementation.
type orchestrator struct {
	options  Options
	storage  storage.Storage
	ledger   credits.Ledger
	registry *registry.ScannerRegistry
	queue    Queue
}

// Start runs the synchronous half of the scan lifecycle. Steps, in order:
// URL validation, tier gate, charge + scan creation in one transaction,
// queue handoff. The first two fail with no side effects at all; a charge
// failure creates no scan; a queue failure is compensated with a refund.
func (o *orchestrator) Start(ctx context.Context,
	identity domain.Identity,
	primaryURL string,
	competitors []string) (*StartResult, error) {
	primary, err := ValidateURL(primaryURL)
	if err != nil {
		return nil, err
	}
	comps := make([]string, 0, len(competitors))
	for _, c := range competitors {
		validated, err := ValidateURL(c)
		if err != nil {
			return nil, err
		}
		comps = append(comps, validated)
	}

	if len(comps) > identity.Tier.MaxCompetitors() {
		return nil, serrors.With(serrors.ErrTierRestricted,
			"tier %q allows at most %d competitors, got %d",
			identity.Tier, identity.Tier.MaxCompetitors(), len(comps))
	}

	creditCost := 1 + len(comps)
	scanType := domain.DetermineScanType(len(comps))

	var scan *domain.Scan
	if err := o.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := o.ledger.ChargeWith(ctx, tx, identity, creditCost,
			domain.TransactionTypeScan, domain.TransactionMetadata{
				"primaryUrl":      primary,
				"competitorCount": len(comps),
			}); err != nil {
			return err
		}

		stored, err := tx.StoreScan(ctx, domain.Scan{
			UserID:      identity.UserID,
			PrimaryURL:  primary,
			Competitors: comps,
			Status:      domain.ScanStatusQueued,
			ScanType:    scanType,
			CreditsUsed: creditCost,
			ScannerKeys: o.registry.Keys(),
		})
		if err != nil {
			return fmt.Errorf("could not store scan: %w", err)
		}
		scan = stored

		return nil
	}); err != nil {
		return nil, err
	}

	taskID, err := o.queue.Submit(ctx, scan)
	if err != nil {
		return nil, o.compensate(ctx, identity, scan, err)
	}

	if _, err := o.storage.SetScanTaskID(ctx, scan.ID, taskID); err != nil {
		// the job is already queued; losing the handle is not worth failing
		// the request over
		logger.Warn(ctx, "could not stamp task ID onto scan",
			zap.String("scanID", uuid.UUID(scan.ID).String()), zap.Error(err))
	}
	metrics.ScansStarted.WithLabelValues(string(scanType)).Inc()

	return &StartResult{
		ScanID:         scan.ID,
		TaskID:         taskID,
		Status:         domain.ScanStatusQueued,
		CreditsCharged: creditCost,
	}, nil
}

// compensate handles a queue submission failure: refund the charge exactly
// once, mark the scan failed, and surface the submission error. The refund is
// never retried; if it fails the inconsistency is logged for manual
// reconciliation, because retrying risks a double refund.
func (o *orchestrator) compensate(ctx context.Context,
	identity domain.Identity,
	scan *domain.Scan,
	submitErr error) error {
	metrics.QueueSubmissionFailures.Inc()

	if _, err := o.ledger.Refund(ctx, identity, scan.CreditsUsed,
		domain.TransactionTypeScanFailedRefund, domain.TransactionMetadata{
			"scanId": uuid.UUID(scan.ID).String(),
			"reason": submitErr.Error(),
			"refund": true,
		}); err != nil {
		logger.Error(ctx, "FATAL LEDGER INCONSISTENCY: charged scan failed to enqueue and refund failed, manual reconciliation required",
			zap.String("scanID", uuid.UUID(scan.ID).String()),
			zap.String("userID", uuid.UUID(identity.UserID).String()),
			zap.Int("credits", scan.CreditsUsed),
			zap.Error(err))
	}

	reason := submitErr.Error()
	if _, err := o.storage.UpdateScanByID(ctx, scan.ID, storage.ScanUpdates{
		Status:         domain.ScanStatusFailed,
		LastError:      &reason,
		SetCompletedAt: true,
	}); err != nil {
		logger.Error(ctx, "could not mark unsubmitted scan failed",
			zap.String("scanID", uuid.UUID(scan.ID).String()), zap.Error(err))
	}
	metrics.ScansFinished.WithLabelValues(string(domain.ScanStatusFailed)).Inc()

	if errors.Is(submitErr, serrors.ErrQueueSubmissionFailed) {
		return submitErr
	}

	return serrors.Wrap(serrors.ErrQueueSubmissionFailed, submitErr, "could not submit scan to queue")
}

// Scan fetches one scan with an ownership check.
func (o *orchestrator) Scan(ctx context.Context,
	identity domain.Identity,
	scanID domain.ScanID) (*domain.Scan, error) {
	scan, err := o.storage.ScanByID(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("could not get scan: %w", err)
	}
	if scan == nil {
		return nil, serrors.With(serrors.ErrNotFound, "scan not found")
	}
	if scan.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, serrors.With(serrors.ErrForbidden, "scan belongs to another user")
	}

	return scan, nil
}

// UserScans returns a page of the caller's scans. It supports cursor-based
// pagination using an RFC3339 timestamp string and returns the next cursor
// when more results are available.
func (o *orchestrator) UserScans(ctx context.Context,
	identity domain.Identity,
	cursor string,
	limit uint) ([]domain.Scan, string, error) {
	var cursorTime time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339, cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		cursorTime = t
	}

	if limit == 0 {
		limit = DefaultScanPageLimit
	}

	page, err := o.storage.UserScans(ctx, identity.UserID, cursorTime, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get user scans: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.Format(time.RFC3339)
	}

	return page.Scans, next, nil
}

// Results returns the persisted results for a scan the caller may read.
// Prompt logs are redacted unless the caller is an admin or the service runs
// in development mode.
func (o *orchestrator) Results(ctx context.Context,
	identity domain.Identity,
	scanID domain.ScanID,
	scannerKey string) ([]domain.ScanResult, error) {
	if _, err := o.Scan(ctx, identity, scanID); err != nil {
		return nil, err
	}

	results, err := o.storage.ScanResults(ctx, scanID, scannerKey)
	if err != nil {
		return nil, fmt.Errorf("could not get scan results: %w", err)
	}

	if !identity.IsAdmin() && o.options.Environment != logger.DevelopmentEnvironment {
		for i := range results {
			results[i].PromptLog = ""
		}
	}

	return results, nil
}

// MarkRunning advances a scan to running. A refused transition (the scan
// already moved on, or was marked failed) is not an error here: workers may
// retry and report out of order.
func (o *orchestrator) MarkRunning(ctx context.Context, scanID domain.ScanID) error {
	if _, err := o.storage.UpdateScanByID(ctx, scanID, storage.ScanUpdates{
		Status: domain.ScanStatusRunning,
	}); err != nil {
		return fmt.Errorf("could not mark scan running: %w", err)
	}

	return nil
}

// RecordScannerResult validates and persists one scanner's payload for a
// scan. The scanner must be part of the scan's snapshot.
func (o *orchestrator) RecordScannerResult(ctx context.Context,
	scanID domain.ScanID,
	scannerKey string,
	rawPayload json.RawMessage,
	promptLog string) (*domain.ScanResult, error) {
	scan, err := o.storage.ScanByID(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("could not get scan: %w", err)
	}
	if scan == nil {
		return nil, serrors.With(serrors.ErrNotFound, "scan not found")
	}
	if !slices.Contains(scan.ScannerKeys, scannerKey) {
		return nil, serrors.With(serrors.ErrBadRequest,
			"scanner %q is not part of scan's snapshot", scannerKey)
	}

	validated, err := report.Validate(scannerKey, rawPayload)
	if err != nil {
		metrics.ScannerResults.WithLabelValues(scannerKey, metrics.OutcomeRejected).Inc()

		return nil, err
	}

	result, err := o.storage.StoreScanResult(ctx, domain.ScanResult{
		ScanID:     scanID,
		ScannerKey: scannerKey,
		Score:      validated.Score,
		Output:     validated.Output,
		PromptLog:  promptLog,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store scan result: %w", err)
	}
	metrics.ScannerResults.WithLabelValues(scannerKey, metrics.OutcomeStored).Inc()

	return result, nil
}

// Finalize settles a scan's terminal state once every scanner has reported:
// complete when at least one result row was persisted, failed otherwise.
func (o *orchestrator) Finalize(ctx context.Context, scanID domain.ScanID) (*domain.Scan, error) {
	scan, err := o.storage.ScanByID(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("could not get scan: %w", err)
	}
	if scan == nil {
		return nil, serrors.With(serrors.ErrNotFound, "scan not found")
	}
	if scan.Status.Terminal() {
		return scan, nil
	}

	count, err := o.storage.ScanResultCount(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("could not count scan results: %w", err)
	}

	updates := storage.ScanUpdates{
		Status:         domain.ScanStatusComplete,
		SetCompletedAt: true,
	}
	if count == 0 {
		reason := "all scanners failed to produce a valid result"
		updates.Status = domain.ScanStatusFailed
		updates.LastError = &reason
	}

	updated, err := o.storage.UpdateScanByID(ctx, scanID, updates)
	if err != nil {
		return nil, fmt.Errorf("could not finalize scan: %w", err)
	}
	if updated == nil {
		// concurrent finalization won the race
		return o.storage.ScanByID(ctx, scanID)
	}

	metrics.ScansFinished.WithLabelValues(string(updated.Status)).Inc()
	metrics.ScanDuration.Observe(time.Since(updated.CreatedAt).Seconds())

	return updated, nil
}

// MarkFailed records a terminal failure for a scan, e.g. when the queue has
// exhausted every attempt. Credits are not refunded; only enqueue failures
// are compensated.
func (o *orchestrator) MarkFailed(ctx context.Context, scanID domain.ScanID, reason string) error {
	updated, err := o.storage.UpdateScanByID(ctx, scanID, storage.ScanUpdates{
		Status:         domain.ScanStatusFailed,
		LastError:      &reason,
		SetCompletedAt: true,
	})
	if err != nil {
		return fmt.Errorf("could not mark scan failed: %w", err)
	}
	if updated != nil {
		metrics.ScansFinished.WithLabelValues(string(domain.ScanStatusFailed)).Inc()
	}

	return nil
}

// New creates an Orchestrator wired to the given collaborators.
func New(storage storage.Storage,
	ledger credits.Ledger,
	reg *registry.ScannerRegistry,
	queue Queue,
	options Options) Orchestrator {
	return &orchestrator{
		options:  options,
		storage:  storage,
		ledger:   ledger,
		registry: reg,
		queue:    queue,
	}
}
