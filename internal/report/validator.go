// Package report validates the structured payload a scanner produces before
// it is persisted. Validation is all-or-nothing: a payload that fails any
// structural rule is rejected wholesale and the scanner is recorded as failed
// for that scan, without affecting sibling scanners.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
)

// Severity levels accepted on an issue.
var validSeverities = map[string]struct{}{
	"low":      {},
	"medium":   {},
	"high":     {},
	"critical": {},
}

// Priority levels accepted on a remediation plan entry.
var validPriorities = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}

// Issue is one finding reported by a scanner.
type Issue struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	ImpactArea     string `json:"impact_area"`
	EffortEstimate string `json:"effort_estimate"`
	Recommendation string `json:"recommendation"`
}

// RemediationEntry is one prioritized action in a scanner's remediation plan.
type RemediationEntry struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	ImpactScore *float64 `json:"impact_score"`
	EffortScore *float64 `json:"effort_score"`
	Priority    string   `json:"priority"`
}

// Chart is a renderable visualization block with an open data map.
type Chart struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Metadata identifies which scanner produced the payload.
type Metadata struct {
	ScannerKey     string `json:"scanner_key"`
	ScannerVersion string `json:"scanner_version"`
	ExecutedAt     string `json:"executed_at"`
}

// ValidatedResult is a scanner payload that passed structural validation.
// Output preserves the raw payload byte-for-byte for persistence.
type ValidatedResult struct {
	Score                  int
	PercentileContribution float64
	Summary                string
	Issues                 []Issue
	RemediationPlan        []RemediationEntry
	Charts                 []Chart
	Metadata               Metadata
	Output                 json.RawMessage
}

// payload mirrors the wire shape of a scanner result. Pointer fields
// distinguish absent from zero.
type payload struct {
	Score                  *json.Number       `json:"score"`
	PercentileContribution *float64           `json:"percentile_contribution"`
	Summary                string             `json:"summary"`
	Details                string             `json:"details"`
	Issues                 []Issue            `json:"issues"`
	RemediationPlan        []RemediationEntry `json:"remediation_plan"`
	Charts                 []Chart            `json:"charts"`
	Metadata               *Metadata          `json:"metadata"`
}

// Validate checks one scanner's raw payload against the result schema and
// returns the decoded result, or an ErrScannerValidationFailed error naming
// the first violated rule. scannerKey is the scanner the payload is expected
// to come from; a mismatching metadata.scanner_key is a rejection.
func Validate(scannerKey string, raw json.RawMessage) (*ValidatedResult, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, serrors.Wrap(serrors.ErrScannerValidationFailed, err,
			"scanner %q produced malformed JSON", scannerKey)
	}

	if p.Score == nil {
		return nil, reject(scannerKey, "score is required")
	}
	score, err := p.Score.Int64()
	if err != nil {
		return nil, reject(scannerKey, "score must be an integer, got %s", p.Score.String())
	}
	if score < 0 || score > 100 {
		return nil, reject(scannerKey, "score %d is outside [0,100]", score)
	}

	if p.PercentileContribution == nil {
		return nil, reject(scannerKey, "percentile_contribution is required")
	}
	if *p.PercentileContribution < 0 || *p.PercentileContribution > 1 {
		return nil, reject(scannerKey,
			"percentile_contribution %v is outside [0,1]", *p.PercentileContribution)
	}

	if p.Summary == "" {
		return nil, reject(scannerKey, "summary is required")
	}

	for i, issue := range p.Issues {
		if issue.Title == "" {
			return nil, reject(scannerKey, "issues[%d].title is required", i)
		}
		if issue.Recommendation == "" {
			return nil, reject(scannerKey, "issues[%d].recommendation is required", i)
		}
		if _, ok := validSeverities[issue.Severity]; !ok {
			return nil, reject(scannerKey, "issues[%d].severity %q is not one of low, medium, high, critical",
				i, issue.Severity)
		}
	}

	for i, entry := range p.RemediationPlan {
		if entry.Title == "" {
			return nil, reject(scannerKey, "remediation_plan[%d].title is required", i)
		}
		if entry.ImpactScore == nil || entry.EffortScore == nil {
			return nil, reject(scannerKey,
				"remediation_plan[%d] must carry numeric impact_score and effort_score", i)
		}
		if _, ok := validPriorities[entry.Priority]; !ok {
			return nil, reject(scannerKey, "remediation_plan[%d].priority %q is not one of low, medium, high",
				i, entry.Priority)
		}
	}

	for i, chart := range p.Charts {
		if chart.Type == "" {
			return nil, reject(scannerKey, "charts[%d].type is required", i)
		}
	}

	if p.Metadata == nil || p.Metadata.ScannerKey == "" {
		return nil, reject(scannerKey, "metadata.scanner_key is required")
	}
	if p.Metadata.ScannerKey != scannerKey {
		return nil, reject(scannerKey, "metadata.scanner_key %q does not match expected scanner %q",
			p.Metadata.ScannerKey, scannerKey)
	}

	return &ValidatedResult{
		Score:                  int(score),
		PercentileContribution: *p.PercentileContribution,
		Summary:                p.Summary,
		Issues:                 p.Issues,
		RemediationPlan:        p.RemediationPlan,
		Charts:                 p.Charts,
		Metadata:               *p.Metadata,
		Output:                 raw,
	}, nil
}

func reject(scannerKey string, msgFmt string, args ...any) error {
	return serrors.With(serrors.ErrScannerValidationFailed,
		"scanner %q: %s", scannerKey, fmt.Sprintf(msgFmt, args...))
}
