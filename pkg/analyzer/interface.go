// Package analyzer defines the interface and data types used to run a
// scanner's analysis against a target URL on a backing analysis provider.
package analyzer

import (
	"context"
	"encoding/json"
)

// Request identifies a single analysis unit: one scanner applied to one
// target domain, with enough surrounding context for competitive scans.
type Request struct {
	ScannerKey string   // ScannerKey selects which analysis the provider runs.
	TargetURL  string   // TargetURL is the URL under analysis.
	PrimaryURL string   // PrimaryURL is the scan's main URL, for competitor context.
	ScanType   string   // ScanType is single, multi or competitor.
	Peers      []string // Peers lists every other URL in the same scan.
}

// Response carries the provider's raw scored payload plus the prompt log
// captured while producing it. Output is kept opaque here; validation happens
// in the report package.
type Response struct {
	Output    json.RawMessage
	PromptLog string
}

// Client is the abstraction for analysis providers. Implementations run one
// scanner against one target and return the raw result payload.
//
//go:generate mockgen -package mockanalyzer -source=interface.go -destination=mock/mockanalyzer.go *
type Client interface {
	// Analyze runs the requested scanner against the target URL and returns
	// the provider's raw payload. The payload is NOT validated here.
	Analyze(ctx context.Context, req Request) (*Response, error)
}
