package storage

import (
	"context"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
)

// CreditStorage defines operations on the credits balance row and the
// append-only transaction ledger. Balance mutations must be atomic with
// respect to concurrent callers on the same user: DeductBalance is a
// conditional single-statement decrement, never a read-then-write.
type CreditStorage interface {
	// CreditBalance returns the balance row for the user, or nil when the
	// user has no balance row yet.
	CreditBalance(ctx context.Context, userID domain.UserID) (*domain.CreditBalance, error)

	// DeductBalance atomically subtracts amount from the user's balance,
	// only if the row exists and holds at least amount credits. It returns
	// the updated row, or nil when the guard did not match (missing row or
	// insufficient funds) in which case nothing was changed.
	DeductBalance(ctx context.Context, userID domain.UserID, amount int) (*domain.CreditBalance, error)

	// AddBalance atomically adds amount to the user's balance, creating the
	// row seeded at amount if it does not exist. Returns the updated row.
	AddBalance(ctx context.Context, userID domain.UserID, amount int) (*domain.CreditBalance, error)

	// StoreTransaction appends an immutable ledger entry and returns the
	// stored row including generated fields.
	StoreTransaction(ctx context.Context, tx domain.CreditTransaction) (*domain.CreditTransaction, error)

	// UserTransactions returns the user's ledger entries, newest first,
	// limited by limit.
	UserTransactions(ctx context.Context, userID domain.UserID, limit uint) ([]domain.CreditTransaction, error)
}
