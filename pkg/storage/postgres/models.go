package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/google/uuid"
)

type PgCreditBalance struct {
	UserID           uuid.UUID    `db:"user_id"`
	CurrentBalance   int          `db:"current_balance"`
	MonthlyAllotment int          `db:"monthly_allotment"`
	RolloverEnabled  bool         `db:"rollover_enabled"`
	RolloverExpiry   sql.NullTime `db:"rollover_expiry"`
	UpdatedAt        time.Time    `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgCreditBalance) ToDomain() *domain.CreditBalance {
	return &domain.CreditBalance{
		UserID:           domain.UserID(p.UserID),
		CurrentBalance:   p.CurrentBalance,
		MonthlyAllotment: p.MonthlyAllotment,
		RolloverEnabled:  p.RolloverEnabled,
		RolloverExpiry:   p.RolloverExpiry.Time,
		UpdatedAt:        p.UpdatedAt,
	}
}

type PgCreditTransaction struct {
	ID        uuid.UUID       `db:"id"         goqu:"skipinsert"`
	UserID    uuid.UUID       `db:"user_id"`
	Amount    int             `db:"amount"`
	Type      string          `db:"type"`
	Metadata  json.RawMessage `db:"metadata"`
	CreatedAt time.Time       `db:"created_at" goqu:"skipinsert"`
}

func (p *PgCreditTransaction) ToDomain() (*domain.CreditTransaction, error) {
	var meta domain.TransactionMetadata
	if len(p.Metadata) > 0 {
		if err := json.Unmarshal(p.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("could not unmarshal transaction metadata: %w", err)
		}
	}

	return &domain.CreditTransaction{
		ID:        domain.TransactionID(p.ID),
		UserID:    domain.UserID(p.UserID),
		Amount:    p.Amount,
		Type:      domain.TransactionType(p.Type),
		Metadata:  meta,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (p *PgCreditTransaction) FromDomain(tx domain.CreditTransaction) error {
	meta := tx.Metadata
	if meta == nil {
		meta = domain.TransactionMetadata{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("could not marshal transaction metadata: %w", err)
	}

	*p = PgCreditTransaction{
		ID:        uuid.UUID(tx.ID),
		UserID:    uuid.UUID(tx.UserID),
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		Metadata:  b,
		CreatedAt: tx.CreatedAt,
	}

	return nil
}

type PgScan struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	PrimaryURL  string          `db:"primary_url"`
	Competitors json.RawMessage `db:"competitors"`
	Status      string          `db:"status"`
	ScanType    string          `db:"scan_type"`
	CreditsUsed int             `db:"credits_used"`
	ScannerKeys json.RawMessage `db:"scanner_keys"`

	TaskID    sql.NullString `db:"task_id"    goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt   time.Time    `db:"created_at"   goqu:"skipinsert"`
	UpdatedAt   sql.NullTime `db:"updated_at"   goqu:"skipinsert"`
	CompletedAt sql.NullTime `db:"completed_at" goqu:"skipinsert"`
}

func (p *PgScan) ToDomain() (*domain.Scan, error) {
	var competitors []string
	if len(p.Competitors) > 0 {
		if err := json.Unmarshal(p.Competitors, &competitors); err != nil {
			return nil, fmt.Errorf("could not unmarshal competitors: %w", err)
		}
	}
	var scannerKeys []string
	if len(p.ScannerKeys) > 0 {
		if err := json.Unmarshal(p.ScannerKeys, &scannerKeys); err != nil {
			return nil, fmt.Errorf("could not unmarshal scanner keys: %w", err)
		}
	}

	return &domain.Scan{
		ID:          domain.ScanID(p.ID),
		UserID:      domain.UserID(p.UserID),
		PrimaryURL:  p.PrimaryURL,
		Competitors: competitors,
		Status:      domain.ScanStatus(p.Status),
		ScanType:    domain.ScanType(p.ScanType),
		CreditsUsed: p.CreditsUsed,
		ScannerKeys: scannerKeys,
		TaskID:      p.TaskID.String,
		LastError:   p.LastError.String,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt.Time,
		CompletedAt: p.CompletedAt.Time,
	}, nil
}

func (p *PgScan) FromDomain(scan domain.Scan) error {
	competitors := scan.Competitors
	if competitors == nil {
		competitors = []string{}
	}
	cb, err := json.Marshal(competitors)
	if err != nil {
		return fmt.Errorf("could not marshal competitors: %w", err)
	}

	scannerKeys := scan.ScannerKeys
	if scannerKeys == nil {
		scannerKeys = []string{}
	}
	kb, err := json.Marshal(scannerKeys)
	if err != nil {
		return fmt.Errorf("could not marshal scanner keys: %w", err)
	}

	*p = PgScan{
		ID:          uuid.UUID(scan.ID),
		UserID:      uuid.UUID(scan.UserID),
		PrimaryURL:  scan.PrimaryURL,
		Competitors: cb,
		Status:      string(scan.Status),
		ScanType:    string(scan.ScanType),
		CreditsUsed: scan.CreditsUsed,
		ScannerKeys: kb,
		TaskID: sql.NullString{
			String: scan.TaskID,
			Valid:  scan.TaskID != "",
		},
		LastError: sql.NullString{
			String: scan.LastError,
			Valid:  scan.LastError != "",
		},
		CreatedAt: scan.CreatedAt,
	}

	return nil
}

type PgScanResult struct {
	ID         uuid.UUID       `db:"id"          goqu:"skipinsert"`
	ScanID     uuid.UUID       `db:"scan_id"`
	ScannerKey string          `db:"scanner_key"`
	Score      int             `db:"score"`
	Output     json.RawMessage `db:"output_json"`
	PromptLog  sql.NullString  `db:"prompt_log"`
	CreatedAt  time.Time       `db:"created_at"  goqu:"skipinsert"`
}

func (p *PgScanResult) ToDomain() *domain.ScanResult {
	return &domain.ScanResult{
		ID:         domain.ScanResultID(p.ID),
		ScanID:     domain.ScanID(p.ScanID),
		ScannerKey: p.ScannerKey,
		Score:      p.Score,
		Output:     p.Output,
		PromptLog:  p.PromptLog.String,
		CreatedAt:  p.CreatedAt,
	}
}

func (p *PgScanResult) FromDomain(res domain.ScanResult) {
	*p = PgScanResult{
		ID:         uuid.UUID(res.ID),
		ScanID:     uuid.UUID(res.ScanID),
		ScannerKey: res.ScannerKey,
		Score:      res.Score,
		Output:     res.Output,
		PromptLog: sql.NullString{
			String: res.PromptLog,
			Valid:  res.PromptLog != "",
		},
	}
}

func pgScansToDomain(scans []PgScan) ([]domain.Scan, error) {
	out := make([]domain.Scan, 0, len(scans))
	for _, scan := range scans {
		d, err := scan.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}

func pgTransactionsToDomain(txs []PgCreditTransaction) ([]domain.CreditTransaction, error) {
	out := make([]domain.CreditTransaction, 0, len(txs))
	for _, tx := range txs {
		d, err := tx.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
