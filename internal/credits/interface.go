package credits

import (
	"context"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
)

// Ledger is the credit accounting service. Balance mutations are atomic per
// user: two concurrent charges against the same balance never overdraw it.
//
//go:generate mockgen -package mockcredits -source=interface.go -destination=mock/mockcredits.go *
type Ledger interface {
	// Charge removes amount credits from the user's balance and appends a
	// negative ledger entry, both in one transaction. Unlimited tiers are
	// never decremented; the entry is still recorded for audit. Fails with
	// ErrInsufficientCredits when the balance cannot cover amount.
	Charge(ctx context.Context,
		identity domain.Identity,
		amount int,
		txType domain.TransactionType,
		metadata domain.TransactionMetadata) (*domain.CreditTransaction, error)

	// ChargeWith is Charge running on a caller-provided storage handle, so a
	// charge can commit atomically with other writes in the caller's
	// transaction.
	ChargeWith(ctx context.Context,
		store storage.AllStorage,
		identity domain.Identity,
		amount int,
		txType domain.TransactionType,
		metadata domain.TransactionMetadata) (*domain.CreditTransaction, error)

	// Grant adds amount credits, creating the balance row seeded at amount
	// when absent, and appends a positive ledger entry. Returns the entry
	// and the updated balance.
	Grant(ctx context.Context,
		userID domain.UserID,
		amount int,
		txType domain.TransactionType,
		metadata domain.TransactionMetadata) (*domain.CreditTransaction, *domain.CreditBalance, error)

	// Refund reverses a prior charge: a grant with a refund-tagged type.
	// Unlimited tiers get the audit entry but no balance increment, since
	// their charge never decremented. The ledger does not deduplicate
	// refunds; calling it twice grants twice. Idempotency is the caller's
	// responsibility.
	Refund(ctx context.Context,
		identity domain.Identity,
		amount int,
		txType domain.TransactionType,
		metadata domain.TransactionMetadata) (*domain.CreditTransaction, error)

	// Deduct removes amount credits without a scan, for admin corrections.
	// Fails with ErrInsufficientCredits when the balance cannot cover it.
	Deduct(ctx context.Context,
		userID domain.UserID,
		amount int,
		metadata domain.TransactionMetadata) (*domain.CreditTransaction, *domain.CreditBalance, error)

	// Balance returns the user's balance row, or ErrNotFound when the user
	// has never been granted or charged credits.
	Balance(ctx context.Context, userID domain.UserID) (*domain.CreditBalance, error)

	// History returns the user's ledger entries newest first, gated on the
	// tier's history permission. limit 0 uses the default page size.
	History(ctx context.Context, identity domain.Identity, limit uint) ([]domain.CreditTransaction, error)
}
