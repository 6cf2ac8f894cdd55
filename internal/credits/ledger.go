// Package credits implements the credit ledger: an append-only transaction
// log plus one mutable balance row per user. The balance is only ever changed
// through conditional single-statement updates at the storage layer, which is
// what makes concurrent charges safe without explicit locking here.
package credits

import (
	"context"
	"fmt"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/metrics"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
)

// DefaultHistoryLimit is the page size used when History is called with
// limit 0.
const DefaultHistoryLimit = 50

// ledger is the concrete Ledger implementation backed by the storage layer.
type ledger struct {
	storage storage.Storage
}

// Charge removes amount credits and records the ledger entry in one
// transaction.
func (l *ledger) Charge(ctx context.Context,
	identity domain.Identity,
	amount int,
	txType domain.TransactionType,
	metadata domain.TransactionMetadata) (*domain.CreditTransaction, error) {
	var entry *domain.CreditTransaction
	if err := l.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		entry, err = l.ChargeWith(ctx, tx, identity, amount, txType, metadata)

		return err
	}); err != nil {
		return nil, err
	}

	return entry, nil
}

// ChargeWith performs the charge against the provided storage handle. When
// the handle is transactional, the balance decrement and the ledger entry
// commit or roll back together with the caller's other writes.
func (l *ledger) ChargeWith(ctx context.Context,
	store storage.AllStorage,
	identity domain.Identity,
	amount int,
	txType domain.TransactionType,
	metadata domain.TransactionMetadata) (*domain.CreditTransaction, error) {
	if amount <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "charge amount must be positive, got %d", amount)
	}

	if !identity.Tier.HasUnlimitedCredits() {
		balance, err := store.DeductBalance(ctx, identity.UserID, amount)
		if err != nil {
			return nil, fmt.Errorf("could not deduct balance: %w", err)
		}
		if balance == nil {
			metrics.InsufficientCredits.Inc()

			return nil, serrors.With(serrors.ErrInsufficientCredits,
				"balance cannot cover %d credits", amount)
		}
	}

	entry, err := store.StoreTransaction(ctx, domain.CreditTransaction{
		UserID:   identity.UserID,
		Amount:   -amount,
		Type:     txType,
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store charge transaction: %w", err)
	}
	metrics.CreditsCharged.WithLabelValues(string(txType)).Add(float64(amount))

	return entry, nil
}

// Grant adds credits and records the positive ledger entry in one
// transaction.
func (l *ledger) Grant(ctx context.Context,
	userID domain.UserID,
	amount int,
	txType domain.TransactionType,
	metadata domain.TransactionMetadata) (*domain.CreditTransaction, *domain.CreditBalance, error) {
	if amount <= 0 {
		return nil, nil, serrors.With(serrors.ErrBadRequest, "grant amount must be positive, got %d", amount)
	}

	var (
		entry   *domain.CreditTransaction
		balance *domain.CreditBalance
	)
	if err := l.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		balance, err = tx.AddBalance(ctx, userID, amount)
		if err != nil {
			return fmt.Errorf("could not add balance: %w", err)
		}

		entry, err = tx.StoreTransaction(ctx, domain.CreditTransaction{
			UserID:   userID,
			Amount:   amount,
			Type:     txType,
			Metadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("could not store grant transaction: %w", err)
		}

		return nil
	}); err != nil {
		return nil, nil, err
	}
	metrics.CreditsGranted.WithLabelValues(string(txType)).Add(float64(amount))

	return entry, balance, nil
}

// Refund is a grant with a refund-tagged type. Callers own idempotency.
// Unlimited tiers only get the audit entry; their balance was never
// decremented by the charge being reversed.
func (l *ledger) Refund(ctx context.Context,
	identity domain.Identity,
	amount int,
	txType domain.TransactionType,
	metadata domain.TransactionMetadata) (*domain.CreditTransaction, error) {
	if txType == "" {
		txType = domain.TransactionTypeRefund
	}

	if identity.Tier.HasUnlimitedCredits() {
		if amount <= 0 {
			return nil, serrors.With(serrors.ErrBadRequest, "refund amount must be positive, got %d", amount)
		}
		entry, err := l.storage.StoreTransaction(ctx, domain.CreditTransaction{
			UserID:   identity.UserID,
			Amount:   amount,
			Type:     txType,
			Metadata: metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("could not store refund transaction: %w", err)
		}
		metrics.CreditsGranted.WithLabelValues(string(txType)).Add(float64(amount))

		return entry, nil
	}

	entry, _, err := l.Grant(ctx, identity.UserID, amount, txType, metadata)

	return entry, err
}

// Deduct removes credits outside the scan flow, for admin corrections. It is
// guarded the same way charges are: it never takes a balance below zero.
func (l *ledger) Deduct(ctx context.Context,
	userID domain.UserID,
	amount int,
	metadata domain.TransactionMetadata) (*domain.CreditTransaction, *domain.CreditBalance, error) {
	if amount <= 0 {
		return nil, nil, serrors.With(serrors.ErrBadRequest, "deduction amount must be positive, got %d", amount)
	}

	var (
		entry   *domain.CreditTransaction
		balance *domain.CreditBalance
	)
	if err := l.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		balance, err = tx.DeductBalance(ctx, userID, amount)
		if err != nil {
			return fmt.Errorf("could not deduct balance: %w", err)
		}
		if balance == nil {
			metrics.InsufficientCredits.Inc()

			return serrors.With(serrors.ErrInsufficientCredits,
				"balance cannot cover a deduction of %d credits", amount)
		}

		entry, err = tx.StoreTransaction(ctx, domain.CreditTransaction{
			UserID:   userID,
			Amount:   -amount,
			Type:     domain.TransactionTypeAdminDeduction,
			Metadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("could not store deduction transaction: %w", err)
		}

		return nil
	}); err != nil {
		return nil, nil, err
	}
	metrics.CreditsCharged.WithLabelValues(string(domain.TransactionTypeAdminDeduction)).Add(float64(amount))

	return entry, balance, nil
}

// Balance returns the user's balance row.
func (l *ledger) Balance(ctx context.Context, userID domain.UserID) (*domain.CreditBalance, error) {
	balance, err := l.storage.CreditBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get balance: %w", err)
	}
	if balance == nil {
		return nil, serrors.With(serrors.ErrNotFound, "no credit balance for user")
	}

	return balance, nil
}

// History returns the user's ledger entries newest first. Tiers below the
// history threshold are rejected.
func (l *ledger) History(ctx context.Context,
	identity domain.Identity,
	limit uint) ([]domain.CreditTransaction, error) {
	if !identity.Tier.CanViewTransactionHistory() {
		return nil, serrors.With(serrors.ErrTierRestricted,
			"tier %q cannot view transaction history", identity.Tier)
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	entries, err := l.storage.UserTransactions(ctx, identity.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("could not get transactions: %w", err)
	}

	return entries, nil
}

// New creates a Ledger backed by the provided storage.
func New(storage storage.Storage) Ledger {
	return &ledger{storage: storage}
}
