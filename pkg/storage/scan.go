package storage

import (
	"context"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
)

// ScanUpdates describes the set of fields that may change on a scan after
// creation. Status transitions are guarded in the backend so the forward-only
// state machine holds even under concurrent writers.
type ScanUpdates struct {
	// Status is the new lifecycle state. The update only applies when the
	// current status is a valid predecessor of the new one.
	Status domain.ScanStatus
	// TaskID, when provided, records the queue handle assigned on submission.
	TaskID *string
	// LastError, when provided, sets the error text. An empty string clears
	// it (NULL).
	LastError *string
	// SetCompletedAt stamps completed_at with the current time. Used when
	// moving into a terminal status.
	SetCompletedAt bool
}

// UserScans groups a page of scans for a user with an optional cursor for
// fetching the next page.
type UserScans struct {
	// Scans contains the current page, newest first.
	Scans []domain.Scan
	// NextCursor is the timestamp to pass as cursor for the next page, nil
	// when there is no next page.
	NextCursor *time.Time
}

// ScanStorage defines create and query operations on scans. Scans are
// historical records: there is no delete.
type ScanStorage interface {
	// StoreScan inserts a scan and returns the stored row as it exists in
	// the database, including generated fields.
	StoreScan(ctx context.Context, scan domain.Scan) (*domain.Scan, error)

	// ScanByID fetches a scan by ID across all users (ownership checks live
	// in the service layer, which also admits admins). Returns nil when not
	// found.
	ScanByID(ctx context.Context, id domain.ScanID) (*domain.Scan, error)

	// UserScans returns a page of the user's scans created before the
	// optional cursor time, newest first, limited by limit.
	UserScans(ctx context.Context, userID domain.UserID, cursor time.Time, limit uint) (UserScans, error)

	// UpdateScanByID applies updates to a single scan and returns the
	// updated row. Returns nil when the scan does not exist or its current
	// status is not a valid predecessor of updates.Status (the transition
	// was refused, nothing changed).
	UpdateScanByID(ctx context.Context, id domain.ScanID, updates ScanUpdates) (*domain.Scan, error)

	// SetScanTaskID stamps the queue handle onto a scan without touching its
	// status; workers may already have advanced it by the time the handle is
	// known. Returns nil when the scan does not exist.
	SetScanTaskID(ctx context.Context, id domain.ScanID, taskID string) (*domain.Scan, error)
}
