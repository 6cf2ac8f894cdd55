package report_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/report"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/stretchr/testify/require"
)

const scannerKey = "content_quality"

// validPayload returns a fully populated payload that passes validation;
// tests mutate individual fields to exercise each rule.
func validPayload() map[string]any {
	return map[string]any{
		"score":                   87,
		"percentile_contribution": 0.25,
		"summary":                 "Content depth is strong, internal linking is thin.",
		"details":                 "Long-form analysis ...",
		"issues": []map[string]any{
			{
				"id":              "iss-1",
				"title":           "Thin internal linking",
				"description":     "Only 2 internal links per article on average.",
				"severity":        "medium",
				"impact_area":     "discoverability",
				"effort_estimate": "days",
				"recommendation":  "Add contextual links between related articles.",
			},
		},
		"remediation_plan": []map[string]any{
			{
				"title":        "Link audit",
				"category":     "content",
				"impact_score": 7.5,
				"effort_score": 3.0,
				"priority":     "high",
			},
		},
		"charts": []map[string]any{
			{"type": "radar", "data": map[string]any{"axes": []string{"depth", "linking"}}},
		},
		"metadata": map[string]any{
			"scanner_key":     scannerKey,
			"scanner_version": "2.1.0",
			"executed_at":     "2026-08-01T12:00:00Z",
		},
	}
}

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)

	return b
}

func Test_Validate_success(t *testing.T) {
	raw := marshal(t, validPayload())

	res, err := report.Validate(scannerKey, raw)
	require.NoError(t, err)
	require.Equal(t, 87, res.Score)
	require.InDelta(t, 0.25, res.PercentileContribution, 1e-9)
	require.Len(t, res.Issues, 1)
	require.Len(t, res.RemediationPlan, 1)
	require.Equal(t, scannerKey, res.Metadata.ScannerKey)
	require.JSONEq(t, string(raw), string(res.Output))
}

func Test_Validate_malformedJSON(t *testing.T) {
	_, err := report.Validate(scannerKey, json.RawMessage(`{"score": `))
	require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
}

func Test_Validate_scoreRules(t *testing.T) {
	for _, tc := range []struct {
		name  string
		score any
	}{
		{"negative", -1},
		{"above hundred", 101},
		{"fractional", 87.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			p["score"] = tc.score
			_, err := report.Validate(scannerKey, marshal(t, p))
			require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
		})
	}

	p := validPayload()
	delete(p, "score")
	_, err := report.Validate(scannerKey, marshal(t, p))
	require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
	require.ErrorContains(t, err, "score is required")
}

func Test_Validate_scoreBoundaries(t *testing.T) {
	for _, score := range []int{0, 100} {
		p := validPayload()
		p["score"] = score
		res, err := report.Validate(scannerKey, marshal(t, p))
		require.NoError(t, err)
		require.Equal(t, score, res.Score)
	}
}

func Test_Validate_percentileContribution(t *testing.T) {
	for _, bad := range []float64{-0.01, 1.01} {
		p := validPayload()
		p["percentile_contribution"] = bad
		_, err := report.Validate(scannerKey, marshal(t, p))
		require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
	}

	p := validPayload()
	delete(p, "percentile_contribution")
	_, err := report.Validate(scannerKey, marshal(t, p))
	require.ErrorContains(t, err, "percentile_contribution is required")
}

func Test_Validate_issueRules(t *testing.T) {
	mutate := func(field string, value any) json.RawMessage {
		p := validPayload()
		issues := p["issues"].([]map[string]any)
		issues[0][field] = value

		b, err := json.Marshal(p)
		if err != nil {
			panic(err)
		}

		return b
	}

	for _, tc := range []struct {
		name  string
		raw   json.RawMessage
		inMsg string
	}{
		{"empty title", mutate("title", ""), "title is required"},
		{"empty recommendation", mutate("recommendation", ""), "recommendation is required"},
		{"bad severity", mutate("severity", "catastrophic"), "severity"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := report.Validate(scannerKey, tc.raw)
			require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
			require.ErrorContains(t, err, tc.inMsg)
		})
	}

	for _, sev := range []string{"low", "medium", "high", "critical"} {
		t.Run(fmt.Sprintf("severity %s accepted", sev), func(t *testing.T) {
			_, err := report.Validate(scannerKey, mutate("severity", sev))
			require.NoError(t, err)
		})
	}
}

func Test_Validate_remediationRules(t *testing.T) {
	mutate := func(change func(map[string]any)) json.RawMessage {
		p := validPayload()
		change(p["remediation_plan"].([]map[string]any)[0])

		b, err := json.Marshal(p)
		if err != nil {
			panic(err)
		}

		return b
	}

	_, err := report.Validate(scannerKey, mutate(func(e map[string]any) { delete(e, "impact_score") }))
	require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)

	_, err = report.Validate(scannerKey, mutate(func(e map[string]any) { e["priority"] = "critical" }))
	require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
	require.ErrorContains(t, err, "priority")

	_, err = report.Validate(scannerKey, mutate(func(e map[string]any) { e["title"] = "" }))
	require.ErrorContains(t, err, "title is required")
}

func Test_Validate_chartTypeRequired(t *testing.T) {
	p := validPayload()
	p["charts"] = []map[string]any{{"data": map[string]any{}}}
	_, err := report.Validate(scannerKey, marshal(t, p))
	require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
	require.ErrorContains(t, err, "charts[0].type")
}

func Test_Validate_metadataScannerKey(t *testing.T) {
	p := validPayload()
	p["metadata"].(map[string]any)["scanner_key"] = "seo_signals"
	_, err := report.Validate(scannerKey, marshal(t, p))
	require.ErrorIs(t, err, serrors.ErrScannerValidationFailed)
	require.ErrorContains(t, err, "does not match")

	delete(p, "metadata")
	_, err = report.Validate(scannerKey, marshal(t, p))
	require.ErrorContains(t, err, "metadata.scanner_key is required")
}

func Test_Validate_optionalSections(t *testing.T) {
	p := validPayload()
	delete(p, "issues")
	delete(p, "remediation_plan")
	delete(p, "charts")

	res, err := report.Validate(scannerKey, marshal(t, p))
	require.NoError(t, err)
	require.Empty(t, res.Issues)
	require.Empty(t, res.RemediationPlan)
	require.Empty(t, res.Charts)
}
