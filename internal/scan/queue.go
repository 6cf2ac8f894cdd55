package scan

import (
	"context"
	"strconv"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
	"github.com/google/uuid"
)

// Queue hands a created scan off to the background processing pool and
// returns an opaque handle for it. The orchestrator depends on this
// interface, not on a concrete broker, so tests can swap in a fake.
//
//go:generate mockgen -package mockscan -source=queue.go -destination=mock/mockqueue.go *
type Queue interface {
	// Submit enqueues the scan for processing and returns the queue's task
	// handle. A failure here is the compensating-refund boundary: the scan
	// was already charged and persisted by the time Submit runs.
	Submit(ctx context.Context, scan *domain.Scan) (string, error)
}

// riverQueue submits scans as River jobs through the storage layer.
type riverQueue struct {
	storage     storage.Storage
	maxAttempts int
}

// Submit enqueues a River job carrying the scan's domains and scanner
// snapshot. The returned handle is the River job ID.
func (q *riverQueue) Submit(ctx context.Context, scan *domain.Scan) (string, error) {
	job, err := q.storage.AddJob(ctx, JobArgs{
		ScanID:      uuid.UUID(scan.ID),
		Domains:     scan.Domains(),
		ScannerKeys: scan.ScannerKeys,
		maxAttempts: q.maxAttempts,
	}, nil)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrQueueSubmissionFailed, err, "could not enqueue scan job")
	}

	return strconv.FormatInt(job.ID, 10), nil
}

// NewRiverQueue creates a Queue that enqueues scan jobs on River via the
// provided storage. maxAttempts bounds per-job retries.
func NewRiverQueue(storage storage.Storage, maxAttempts int) Queue {
	return &riverQueue{storage: storage, maxAttempts: maxAttempts}
}
