package domain

// Tier is a subscription level. Tiers form a fixed total order
// (anonymous < lite < deep < ultimate < enterprise) which gates feature
// access and credit behavior. All tier comparisons must go through the
// methods below so the ordering lives in exactly one place.
type Tier string

const (
	TierAnonymous  Tier = "anonymous"
	TierLite       Tier = "lite"
	TierDeep       Tier = "deep"
	TierUltimate   Tier = "ultimate"
	TierEnterprise Tier = "enterprise"
)

// tierRank maps each known tier onto its position in the total order.
// Unknown tiers are absent and rank below everything known.
var tierRank = map[Tier]int{ //nolint: gochecknoglobals
	TierAnonymous:  0,
	TierLite:       1,
	TierDeep:       2,
	TierUltimate:   3,
	TierEnterprise: 4,
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]

	return ok
}

// AtLeast reports whether t ranks at or above min in the tier order.
// An unrecognized tier never satisfies any minimum, including itself.
func (t Tier) AtLeast(min Tier) bool {
	tr, ok := tierRank[t]
	if !ok {
		return false
	}
	mr, ok := tierRank[min]
	if !ok {
		return false
	}

	return tr >= mr
}

// HasUnlimitedCredits reports whether charges against this tier skip balance
// accounting. Only enterprise is unlimited; its ledger entries are still
// recorded for audit.
func (t Tier) HasUnlimitedCredits() bool {
	return t == TierEnterprise
}

// MaxCompetitors returns how many competitor URLs a scan may include for
// this tier. Zero means competitor scans are not available at all.
func (t Tier) MaxCompetitors() int {
	switch t {
	case TierDeep:
		return 1
	case TierUltimate:
		return 5
	case TierEnterprise:
		return 10
	default:
		// anonymous, lite and anything unrecognized
		return 0
	}
}

// CanViewTransactionHistory reports whether the tier may read its credit
// transaction history. Available from deep upward.
func (t Tier) CanViewTransactionHistory() bool {
	return t.AtLeast(TierDeep)
}
