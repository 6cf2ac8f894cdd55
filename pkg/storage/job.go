package storage

import (
	"context"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobStorage defines the minimal interface for enqueueing background jobs.
// Implementations persist the job into the underlying queue backend; when
// invoked on a transactional handle the insert participates in the
// surrounding transaction.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments and returns the
	// inserted job row (whose ID serves as the external task handle).
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobRow, error)
}
