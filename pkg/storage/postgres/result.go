package postgres

import (
	"context"
	"fmt"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	resultsTable = "scan_results"
)

// StoreScanResult inserts a validated scanner result row.
func (p *PgSQL) StoreScanResult(ctx context.Context, result domain.ScanResult) (*domain.ScanResult, error) {
	var pgRes PgScanResult
	pgRes.FromDomain(result)

	var row PgScanResult
	found, err := p.Builder.Insert(resultsTable).
		Rows(pgRes).
		Returning(&PgScanResult{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store scan result: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("scan result insert returned no row")
	}

	return row.ToDomain(), nil
}

// ScanResults returns results for a scan, optionally filtered by scanner key.
func (p *PgSQL) ScanResults(ctx context.Context,
	scanID domain.ScanID,
	scannerKey string) ([]domain.ScanResult, error) {
	w := []goqu.Expression{
		goqu.I("scan_id").Eq(uuid.UUID(scanID)),
	}
	if scannerKey != "" {
		w = append(w, goqu.I("scanner_key").Eq(scannerKey))
	}

	var rows []PgScanResult
	if err := p.Builder.From(resultsTable).
		Where(w...).
		Order(goqu.I("scanner_key").Asc(), goqu.I("created_at").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch scan results: %w", err)
	}

	out := make([]domain.ScanResult, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

// ScanResultCount returns the number of results persisted for a scan.
func (p *PgSQL) ScanResultCount(ctx context.Context, scanID domain.ScanID) (int64, error) {
	var count int64
	if _, err := p.Builder.From(resultsTable).
		Select(goqu.COUNT("*")).
		Where(goqu.I("scan_id").Eq(uuid.UUID(scanID))).
		Executor().ScanValContext(ctx, &count); err != nil {
		return 0, fmt.Errorf("could not count scan results: %w", err)
	}

	return count, nil
}
