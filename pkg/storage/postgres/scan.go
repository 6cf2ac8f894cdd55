package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	scansTable = "scans"
)

// validPredecessors returns the statuses a scan may hold immediately before
// moving to next, per the forward-only state machine in the domain package.
func validPredecessors(next domain.ScanStatus) []string {
	all := []domain.ScanStatus{
		domain.ScanStatusQueued,
		domain.ScanStatusRunning,
		domain.ScanStatusComplete,
		domain.ScanStatusFailed,
	}

	var out []string
	for _, s := range all {
		if s.CanTransitionTo(next) {
			out = append(out, string(s))
		}
	}

	return out
}

// StoreScan inserts a scan and returns the stored row.
func (p *PgSQL) StoreScan(ctx context.Context, scan domain.Scan) (*domain.Scan, error) {
	var pgScan PgScan
	if err := pgScan.FromDomain(scan); err != nil {
		return nil, err
	}

	var row PgScan
	found, err := p.Builder.Insert(scansTable).
		Rows(pgScan).
		Returning(&PgScan{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store scan: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("scan insert returned no row")
	}

	return row.ToDomain()
}

// ScanByID fetches a scan by its ID. Returns nil when not found.
func (p *PgSQL) ScanByID(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	var row PgScan
	found, err := p.Builder.From(scansTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch scan by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// SetScanTaskID stamps the queue handle onto a scan. No status guard: the
// worker may have started before the handle was recorded.
func (p *PgSQL) SetScanTaskID(ctx context.Context, id domain.ScanID, taskID string) (*domain.Scan, error) {
	var row PgScan
	found, err := p.Builder.Update(scansTable).
		Set(goqu.Record{
			"task_id":    taskID,
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgScan{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not set scan task id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// UserScans returns a page of scans for a user created before the optional
// cursor, ordered by created_at DESC, id DESC. A next cursor is returned
// when more rows exist.
func (p *PgSQL) UserScans(ctx context.Context,
	userID domain.UserID,
	cursor time.Time,
	limit uint) (storage.UserScans, error) {
	w := []goqu.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	fetch := limit + 1
	ds := p.Builder.From(scansTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch)

	var rows []PgScan
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserScans{}, fmt.Errorf("could not fetch user scans: %w", err)
	}

	var nextCursor *time.Time
	if limit > 0 && uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].CreatedAt
		rows = trimmed
	}

	domainRows, err := pgScansToDomain(rows)
	if err != nil {
		return storage.UserScans{}, err
	}

	return storage.UserScans{
		Scans:      domainRows,
		NextCursor: nextCursor,
	}, nil
}

// UpdateScanByID applies updates to a single scan, guarding the status
// transition in SQL so the state machine stays forward-only even when
// workers race. Returns nil when no row matched (missing scan or refused
// transition).
func (p *PgSQL) UpdateScanByID(ctx context.Context,
	id domain.ScanID,
	updates storage.ScanUpdates) (*domain.Scan, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"status":     string(updates.Status),
	}
	if updates.TaskID != nil {
		rec["task_id"] = *updates.TaskID
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			// set to NULL when empty string provided
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}
	if updates.SetCompletedAt {
		rec["completed_at"] = goqu.L("CURRENT_TIMESTAMP")
	}

	var row PgScan
	found, err := p.Builder.Update(scansTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("status").In(validPredecessors(updates.Status)),
	).Returning(&PgScan{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update scan: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
