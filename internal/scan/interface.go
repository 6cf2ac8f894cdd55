package scan

import (
	"context"
	"encoding/json"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
)

// StartResult is what a successful scan submission returns to the caller.
type StartResult struct {
	// ScanID identifies the created scan.
	ScanID domain.ScanID
	// TaskID is the queue handle assigned on submission.
	TaskID string
	// Status is the scan's state at return time (always queued).
	Status domain.ScanStatus
	// CreditsCharged is the cost deducted for this scan.
	CreditsCharged int
}

// Orchestrator drives the scan lifecycle: it charges, creates and enqueues
// scans on the request path, and advances them as workers report progress.
//
//go:generate mockgen -package mockscan -source=interface.go -destination=mock/mockscan.go *
type Orchestrator interface {
	// Start validates the URLs, gates on tier, charges the ledger, creates
	// the scan in queued state and submits it to the queue. A queue
	// submission failure refunds the charge exactly once, marks the scan
	// failed and returns ErrQueueSubmissionFailed.
	Start(ctx context.Context,
		identity domain.Identity,
		primaryURL string,
		competitors []string) (*StartResult, error)

	// Scan fetches one scan. Only the owner or an admin may read it.
	Scan(ctx context.Context, identity domain.Identity, scanID domain.ScanID) (*domain.Scan, error)

	// UserScans returns a page of the caller's scans, newest first, with a
	// cursor for the next page. limit 0 uses the default page size.
	UserScans(ctx context.Context,
		identity domain.Identity,
		cursor string,
		limit uint) ([]domain.Scan, string, error)

	// Results returns the persisted scanner results for a scan, optionally
	// filtered to one scanner key. Prompt logs are stripped unless the
	// caller is privileged.
	Results(ctx context.Context,
		identity domain.Identity,
		scanID domain.ScanID,
		scannerKey string) ([]domain.ScanResult, error)

	// MarkRunning moves a scan to running when a worker picks it up. Safe
	// to call on retries: a scan already past queued is left untouched.
	MarkRunning(ctx context.Context, scanID domain.ScanID) error

	// RecordScannerResult validates one scanner's raw payload and persists
	// it. A rejected payload returns ErrScannerValidationFailed and stores
	// nothing; sibling scanners are unaffected.
	RecordScannerResult(ctx context.Context,
		scanID domain.ScanID,
		scannerKey string,
		rawPayload json.RawMessage,
		promptLog string) (*domain.ScanResult, error)

	// Finalize moves a scan to its terminal state once every scanner has
	// reported: complete when at least one result row exists, failed
	// otherwise. No credits move here; only the initial enqueue failure
	// ever triggers a refund.
	Finalize(ctx context.Context, scanID domain.ScanID) (*domain.Scan, error)

	// MarkFailed moves a scan to failed with the given reason, used when
	// the queue exhausts all attempts without producing any result.
	MarkFailed(ctx context.Context, scanID domain.ScanID, reason string) error
}
