package postgres

import (
	"context"
	"fmt"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	balancesTable     = "credits_balances"
	transactionsTable = "credits_transactions"
)

// CreditBalance returns the balance row for the user, or nil when absent.
func (p *PgSQL) CreditBalance(ctx context.Context, userID domain.UserID) (*domain.CreditBalance, error) {
	var row PgCreditBalance
	found, err := p.Builder.From(balancesTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch credit balance: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeductBalance subtracts amount from the user's balance in a single
// conditional UPDATE. The `current_balance >= amount` guard in the statement
// is what makes concurrent charges safe: two racing callers cannot both pass
// it when only one can be covered. Returns nil when the guard did not match.
func (p *PgSQL) DeductBalance(ctx context.Context, userID domain.UserID, amount int) (*domain.CreditBalance, error) {
	var row PgCreditBalance
	found, err := p.Builder.Update(balancesTable).
		Set(goqu.Record{
			"current_balance": goqu.L("current_balance - ?", amount),
			"updated_at":      goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("current_balance").Gte(amount),
	).Returning(&PgCreditBalance{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not deduct credit balance: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// AddBalance adds amount to the user's balance, creating the row seeded at
// amount when it does not exist yet. The upsert keeps concurrent grants for
// the same fresh user from racing on row creation.
func (p *PgSQL) AddBalance(ctx context.Context, userID domain.UserID, amount int) (*domain.CreditBalance, error) {
	var row PgCreditBalance
	found, err := p.Builder.Insert(balancesTable).
		Rows(PgCreditBalance{
			UserID:         uuid.UUID(userID),
			CurrentBalance: amount,
		}).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{
			"current_balance": goqu.L("? + ?", goqu.I("credits_balances.current_balance"), amount),
			"updated_at":      goqu.L("CURRENT_TIMESTAMP"),
		})).
		Returning(&PgCreditBalance{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not add credit balance: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("credit balance upsert returned no row for user %s", uuid.UUID(userID))
	}

	return row.ToDomain(), nil
}

// StoreTransaction appends an immutable ledger entry.
func (p *PgSQL) StoreTransaction(ctx context.Context,
	tx domain.CreditTransaction) (*domain.CreditTransaction, error) {
	var pgTx PgCreditTransaction
	if err := pgTx.FromDomain(tx); err != nil {
		return nil, err
	}

	var row PgCreditTransaction
	found, err := p.Builder.Insert(transactionsTable).
		Rows(pgTx).
		Returning(&PgCreditTransaction{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store credit transaction: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("credit transaction insert returned no row")
	}

	return row.ToDomain()
}

// UserTransactions returns the user's ledger entries, newest first.
func (p *PgSQL) UserTransactions(ctx context.Context,
	userID domain.UserID,
	limit uint) ([]domain.CreditTransaction, error) {
	var rows []PgCreditTransaction
	if err := p.Builder.From(transactionsTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user transactions: %w", err)
	}

	return pgTransactionsToDomain(rows)
}
