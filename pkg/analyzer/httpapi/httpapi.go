// Package httpapi provides an analyzer.Client implementation backed by the
// internal analysis service's REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
)

// Client talks to the analysis service's REST API and fulfills the
// analyzer.Client interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the analysis service
	baseURL    string       // baseURL is the analysis service root, without trailing slash
	token      string       // token is the bearer token for the analysis service
}

// Analyze submits one scanner/target pair to the analysis service and returns
// the raw payload plus the prompt log. 404 maps to ErrNotFound (unknown
// scanner key on the provider side), 429 and 5xx map to ErrUnavailable so
// callers can retry through the queue.
func (c *Client) Analyze(ctx context.Context, req analyzer.Request) (*analyzer.Response, error) {
	type analyzeReq struct {
		ScannerKey string   `json:"scanner_key"`
		TargetURL  string   `json:"target_url"`
		PrimaryURL string   `json:"primary_url,omitempty"`
		ScanType   string   `json:"scan_type,omitempty"`
		Peers      []string `json:"peers,omitempty"`
	}
	bodyBytes, err := json.Marshal(analyzeReq{
		ScannerKey: req.ScannerKey,
		TargetURL:  req.TargetURL,
		PrimaryURL: req.PrimaryURL,
		ScanType:   req.ScanType,
		Peers:      req.Peers,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.baseURL+"/v1/analyze",
		strings.NewReader(string(bodyBytes)))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, serrors.With(serrors.ErrNotFound, "unknown scanner %q", req.ScannerKey)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, serrors.With(serrors.ErrUnavailable,
			"analysis service unavailable: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analyze failed: %s", strings.TrimSpace(string(b)))
	}

	// successful
	var analyzeResp struct {
		Output    json.RawMessage `json:"output"`
		PromptLog string          `json:"prompt_log"`
	}
	if err := json.Unmarshal(b, &analyzeResp); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if len(analyzeResp.Output) == 0 {
		return nil, fmt.Errorf("analysis service returned an empty payload")
	}

	return &analyzer.Response{
		Output:    analyzeResp.Output,
		PromptLog: analyzeResp.PromptLog,
	}, nil
}

// Ensure Client conforms to the analyzer.Client interface at compile time.
var _ analyzer.Client = (*Client)(nil)

// New constructs a Client that uses the provided http.Client, base URL and
// bearer token to interact with the analysis service.
func New(httpClient *http.Client, baseURL string, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}
