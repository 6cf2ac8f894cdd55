package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ScanResultID uniquely identifies a persisted scanner result.
type ScanResultID uuid.UUID

// ScanResult is one scanner's validated report for one scan. At most one row
// exists per (scan, scanner) pair; a failed scanner simply has no row, which
// must not block sibling scanners from producing theirs.
type ScanResult struct {
	// ID is the unique identifier of the result row.
	ID ScanResultID `json:"id"`
	// ScanID is the scan this result belongs to.
	ScanID ScanID `json:"scanId"`
	// ScannerKey names the scanner that produced the payload.
	ScannerKey string `json:"scannerKey"`

	// Score is the scanner's 0-100 verdict, duplicated out of the payload
	// for cheap aggregation queries.
	Score int `json:"score"`
	// Output is the validated structured payload as accepted by the result
	// validator. Opaque at this layer.
	Output json.RawMessage `json:"outputJson"`
	// PromptLog is the diagnostic blob from the analysis step. It is only
	// exposed to admins or in development mode.
	PromptLog string `json:"promptLog,omitempty"`

	// CreatedAt is when the result was persisted.
	CreatedAt time.Time `json:"createdAt"`
}
