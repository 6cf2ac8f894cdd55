package credits_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/credits"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage"
	mockstorage "github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage/mock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLedger(t *testing.T) (*gomock.Controller, *mockstorage.MockStorage, credits.Ledger) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	l := credits.New(st)

	return ctrl, st, l
}

// expectWithTx wires Storage.WithTx to execute the callback against a
// MockAllStorage prepared by fn.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) {
	t.Helper()

	m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

func metered(userID domain.UserID) domain.Identity {
	return domain.Identity{UserID: userID, Role: domain.RoleUser, Tier: domain.TierUltimate}
}

func TestLedger_Charge_Success(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().DeductBalance(gomock.Any(), userID, 3).
			Return(&domain.CreditBalance{UserID: userID, CurrentBalance: 7}, nil)
		tx.EXPECT().StoreTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry domain.CreditTransaction) (*domain.CreditTransaction, error) {
				require.Equal(t, -3, entry.Amount)
				require.Equal(t, domain.TransactionTypeScan, entry.Type)
				entry.ID = domain.TransactionID(uuid.New())

				return &entry, nil
			},
		)
	})

	entry, err := l.Charge(context.Background(), metered(userID), 3,
		domain.TransactionTypeScan, domain.TransactionMetadata{"primaryUrl": "https://example.com"})
	require.NoError(t, err)
	require.Equal(t, -3, entry.Amount)
}

func TestLedger_Charge_Insufficient(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		// guard did not match: nothing changed, no transaction stored
		tx.EXPECT().DeductBalance(gomock.Any(), userID, 5).Return(nil, nil)
	})

	_, err := l.Charge(context.Background(), metered(userID), 5, domain.TransactionTypeScan, nil)
	require.ErrorIs(t, err, serrors.ErrInsufficientCredits)
}

func TestLedger_Charge_EnterpriseNeverDecrements(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())
	identity := domain.Identity{UserID: userID, Role: domain.RoleUser, Tier: domain.TierEnterprise}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		// no DeductBalance expectation: touching the balance would fail the test
		tx.EXPECT().StoreTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry domain.CreditTransaction) (*domain.CreditTransaction, error) {
				require.Equal(t, -10, entry.Amount)

				return &entry, nil
			},
		)
	})

	entry, err := l.Charge(context.Background(), identity, 10, domain.TransactionTypeScan, nil)
	require.NoError(t, err)
	require.Equal(t, -10, entry.Amount)
}

func TestLedger_Charge_InvalidAmount(t *testing.T) {
	_, _, l := newTestLedger(t)

	for _, amount := range []int{0, -2} {
		_, err := l.Charge(context.Background(), metered(domain.UserID(uuid.New())), amount,
			domain.TransactionTypeScan, nil)
		require.ErrorIs(t, err, serrors.ErrBadRequest)
	}
}

func TestLedger_Grant_Success(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().AddBalance(gomock.Any(), userID, 20).
			Return(&domain.CreditBalance{UserID: userID, CurrentBalance: 25}, nil)
		tx.EXPECT().StoreTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry domain.CreditTransaction) (*domain.CreditTransaction, error) {
				require.Equal(t, 20, entry.Amount)
				require.Equal(t, domain.TransactionTypeAdminGrant, entry.Type)

				return &entry, nil
			},
		)
	})

	entry, balance, err := l.Grant(context.Background(), userID, 20,
		domain.TransactionTypeAdminGrant, domain.TransactionMetadata{"adminId": "a-1"})
	require.NoError(t, err)
	require.Equal(t, 20, entry.Amount)
	require.Equal(t, 25, balance.CurrentBalance)
}

func TestLedger_Refund_DefaultsType(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().AddBalance(gomock.Any(), userID, 3).
			Return(&domain.CreditBalance{UserID: userID, CurrentBalance: 3}, nil)
		tx.EXPECT().StoreTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry domain.CreditTransaction) (*domain.CreditTransaction, error) {
				require.Equal(t, domain.TransactionTypeRefund, entry.Type)
				require.Equal(t, 3, entry.Amount)

				return &entry, nil
			},
		)
	})

	_, err := l.Refund(context.Background(), metered(userID), 3, "", nil)
	require.NoError(t, err)
}

func TestLedger_Refund_EnterpriseAuditOnly(t *testing.T) {
	_, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())
	identity := domain.Identity{UserID: userID, Tier: domain.TierEnterprise}

	// no WithTx, no AddBalance: only the audit entry is written
	st.EXPECT().StoreTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry domain.CreditTransaction) (*domain.CreditTransaction, error) {
			require.Equal(t, 5, entry.Amount)
			require.Equal(t, domain.TransactionTypeScanFailedRefund, entry.Type)

			return &entry, nil
		},
	)

	_, err := l.Refund(context.Background(), identity, 5, domain.TransactionTypeScanFailedRefund, nil)
	require.NoError(t, err)
}

func TestLedger_Refund_DoesNotDeduplicate(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	// two invocations produce two grants; idempotency is the caller's job
	for range 2 {
		expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
			tx.EXPECT().AddBalance(gomock.Any(), userID, 3).
				Return(&domain.CreditBalance{UserID: userID, CurrentBalance: 3}, nil)
			tx.EXPECT().StoreTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, entry domain.CreditTransaction) (*domain.CreditTransaction, error) {
					return &entry, nil
				},
			)
		})
	}

	_, err := l.Refund(context.Background(), metered(userID), 3, domain.TransactionTypeScanFailedRefund, nil)
	require.NoError(t, err)
	_, err = l.Refund(context.Background(), metered(userID), 3, domain.TransactionTypeScanFailedRefund, nil)
	require.NoError(t, err)
}

func TestLedger_Deduct_Insufficient(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().DeductBalance(gomock.Any(), userID, 100).Return(nil, nil)
	})

	_, _, err := l.Deduct(context.Background(), userID, 100, nil)
	require.ErrorIs(t, err, serrors.ErrInsufficientCredits)
}

func TestLedger_Balance_NotFound(t *testing.T) {
	_, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	st.EXPECT().CreditBalance(gomock.Any(), userID).Return(nil, nil)

	_, err := l.Balance(context.Background(), userID)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestLedger_History_TierGate(t *testing.T) {
	_, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())

	_, err := l.History(context.Background(),
		domain.Identity{UserID: userID, Tier: domain.TierLite}, 10)
	require.ErrorIs(t, err, serrors.ErrTierRestricted)

	st.EXPECT().UserTransactions(gomock.Any(), userID, uint(credits.DefaultHistoryLimit)).
		Return([]domain.CreditTransaction{}, nil)
	_, err = l.History(context.Background(),
		domain.Identity{UserID: userID, Tier: domain.TierDeep}, 0)
	require.NoError(t, err)
}

func TestLedger_Charge_StorageError(t *testing.T) {
	ctrl, st, l := newTestLedger(t)
	userID := domain.UserID(uuid.New())
	boom := errors.New("connection reset")

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().DeductBalance(gomock.Any(), userID, 1).Return(nil, boom)
	})

	_, err := l.Charge(context.Background(), metered(userID), 1, domain.TransactionTypeScan, nil)
	require.ErrorIs(t, err, boom)
}
