package storage

import (
	"context"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
)

// ResultStorage defines operations on persisted scanner results. Results are
// create-once rows keyed by (scan, scanner); there is no update or delete.
type ResultStorage interface {
	// StoreScanResult inserts a validated scanner result and returns the
	// stored row including generated fields.
	StoreScanResult(ctx context.Context, result domain.ScanResult) (*domain.ScanResult, error)

	// ScanResults returns all results for a scan, optionally filtered to a
	// single scanner key when scannerKey is non-empty. Ordered by scanner key
	// for stable output.
	ScanResults(ctx context.Context, scanID domain.ScanID, scannerKey string) ([]domain.ScanResult, error)

	// ScanResultCount returns how many results exist for a scan.
	ScanResultCount(ctx context.Context, scanID domain.ScanID) (int64, error)
}
