package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScanID uniquely identifies a scan request.
type ScanID uuid.UUID

// ScanStatus represents the lifecycle state of a scan. The state machine is
// strictly forward-only: queued → running → complete/failed, no backward
// transitions, terminal states are never left.
type ScanStatus string

const (
	// ScanStatusQueued means the scan has been charged and handed (or is
	// being handed) to the job queue.
	ScanStatusQueued ScanStatus = "queued"
	// ScanStatusRunning means a worker has picked the scan up.
	ScanStatusRunning ScanStatus = "running"
	// ScanStatusComplete means processing finished with at least one
	// persisted scanner result.
	ScanStatusComplete ScanStatus = "complete"
	// ScanStatusFailed means the scan produced no results: either queue
	// submission failed or every scanner attempt was exhausted.
	ScanStatusFailed ScanStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s ScanStatus) Terminal() bool {
	return s == ScanStatusComplete || s == ScanStatusFailed
}

// CanTransitionTo reports whether moving from s to next respects the
// forward-only state machine.
func (s ScanStatus) CanTransitionTo(next ScanStatus) bool {
	switch s {
	case ScanStatusQueued:
		return next == ScanStatusRunning || next == ScanStatusComplete || next == ScanStatusFailed
	case ScanStatusRunning:
		return next == ScanStatusComplete || next == ScanStatusFailed
	default:
		return false
	}
}

// ScanType classifies a scan by how many competitor domains it covers.
// It is derived once at creation time and never recalculated.
type ScanType string

const (
	// ScanTypeSingle covers the primary URL only.
	ScanTypeSingle ScanType = "single"
	// ScanTypeMulti covers the primary URL plus one competitor.
	ScanTypeMulti ScanType = "multi"
	// ScanTypeCompetitor covers the primary URL plus two or more competitors.
	ScanTypeCompetitor ScanType = "competitor"
)

// DetermineScanType derives the scan type from the competitor count:
// 0 → single, 1 → multi, anything above → competitor.
func DetermineScanType(competitorCount int) ScanType {
	switch {
	case competitorCount <= 0:
		return ScanTypeSingle
	case competitorCount == 1:
		return ScanTypeMulti
	default:
		return ScanTypeCompetitor
	}
}

// Scan is one user-initiated unit of work covering a primary domain and zero
// or more competitor domains. Scans are historical records and are never
// deleted; after creation only status, task ID, error and completion
// timestamp may change.
type Scan struct {
	// ID is the unique identifier of the scan.
	ID ScanID `json:"id"`
	// UserID is the user who requested (and paid for) the scan.
	UserID UserID `json:"userId"`

	// PrimaryURL is the main domain under analysis.
	PrimaryURL string `json:"primaryUrl"`
	// Competitors are additional domains scanned for comparison, in the
	// order the user supplied them.
	Competitors []string `json:"competitors"`

	// Status is the current lifecycle state.
	Status ScanStatus `json:"status"`
	// ScanType is derived from the competitor count at creation time.
	ScanType ScanType `json:"scanType"`
	// CreditsUsed is the cost charged at creation (1 + competitor count).
	// Fixed forever; refunds reference it but never rewrite it.
	CreditsUsed int `json:"creditsUsed"`
	// ScannerKeys is the snapshot of scanners enabled when the scan was
	// created. Later registry changes must not alter historical scans.
	ScannerKeys []string `json:"scannerKeys"`

	// TaskID is the job queue handle assigned on successful submission.
	TaskID string `json:"taskId,omitempty"`
	// LastError holds the most recent failure message, if any.
	LastError string `json:"error,omitempty"`

	// CreatedAt is when the scan was charged and created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the scan row last changed.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	// CompletedAt is when the scan reached a terminal state.
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// Domains returns the full ordered list of domains this scan covers:
// the primary URL followed by the competitors.
func (s *Scan) Domains() []string {
	out := make([]string, 0, 1+len(s.Competitors))
	out = append(out, s.PrimaryURL)
	out = append(out, s.Competitors...)

	return out
}
