// Package domain contains the core business entities and types of the
// website-analysis service: subscription tiers, the credit ledger, scans and
// their per-scanner results. The types are intentionally free of
// infrastructure concerns so they can be shared across packages.
package domain
