package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionID uniquely identifies a credit ledger entry.
type TransactionID uuid.UUID

// TransactionType tags why a ledger entry exists.
type TransactionType string

const (
	// TransactionTypeScan is a charge for starting a scan.
	TransactionTypeScan TransactionType = "scan"
	// TransactionTypeAdminGrant is a manual credit grant by an admin.
	TransactionTypeAdminGrant TransactionType = "admin_grant"
	// TransactionTypeAdminDeduction is a manual credit removal by an admin.
	TransactionTypeAdminDeduction TransactionType = "admin_deduction"
	// TransactionTypeRefund reverses a prior charge.
	TransactionTypeRefund TransactionType = "refund"
	// TransactionTypeBonus is a promotional grant.
	TransactionTypeBonus TransactionType = "bonus"
	// TransactionTypeCompensation is a goodwill grant after a service issue.
	TransactionTypeCompensation TransactionType = "compensation"
	// TransactionTypeScanFailedRefund is the compensating refund issued when
	// a charged scan could not be handed to the job queue.
	TransactionTypeScanFailedRefund TransactionType = "scan_failed_refund"
)

// TransactionMetadata is an opaque key/value bag attached to a ledger entry
// (scan IDs, admin IDs, reasons). It is stored as JSON and never interpreted
// by the ledger itself.
type TransactionMetadata map[string]any

// CreditBalance is the single mutable credits row per user. For enterprise
// users the stored balance is ignored; their credits are unlimited.
type CreditBalance struct {
	// UserID owns this balance row.
	UserID UserID `json:"userId"`
	// CurrentBalance is the number of credits available to spend. Never
	// negative for metered tiers.
	CurrentBalance int `json:"currentBalance"`
	// MonthlyAllotment is the number of credits granted per billing cycle.
	MonthlyAllotment int `json:"monthlyAllotment"`
	// RolloverEnabled indicates unused credits survive the cycle boundary.
	RolloverEnabled bool `json:"rolloverEnabled"`
	// RolloverExpiry is when rolled-over credits lapse; zero when unset.
	RolloverExpiry time.Time `json:"rolloverExpiry,omitzero"`
	// UpdatedAt is the time of the last balance mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreditTransaction is an immutable, append-only ledger entry. The signed
// sum of all entries for a user reconstructs the balance; entries are the
// sole source of truth for audit.
type CreditTransaction struct {
	// ID is the unique identifier of the entry.
	ID TransactionID `json:"id"`
	// UserID is the user whose balance this entry affects.
	UserID UserID `json:"userId"`
	// Amount is signed: negative for charges, positive for grants and refunds.
	Amount int `json:"amount"`
	// Type tags the reason for the entry.
	Type TransactionType `json:"type"`
	// Metadata carries opaque context such as scanId or adminId.
	Metadata TransactionMetadata `json:"metadata"`
	// CreatedAt is when the entry was appended.
	CreatedAt time.Time `json:"createdAt"`
}
