package scan

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// JobArgs carries everything a worker needs to process one scan: the scan
// record it updates, the full domain set and the scanner snapshot taken at
// creation time. Workers must use these scanner keys, never the live
// registry, so historical scans stay stable across config changes.
type JobArgs struct {
	// ScanID identifies the scan row the worker reports progress on.
	ScanID uuid.UUID `json:"scan_id"`
	// Domains is the primary URL followed by the competitors, in order.
	Domains []string `json:"domains"`
	// ScannerKeys is the scan's scanner snapshot.
	ScannerKeys []string `json:"scanner_keys"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
}

// Kind returns the River job kind used to register and dispatch the scan worker.
func (args JobArgs) Kind() string { return "RunScanJob" }

// InsertOpts returns the River options that control how the job is enqueued.
// Scans are charged per request, so jobs are never deduplicated: every scan
// gets its own job even for identical URLs.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
	}
}
