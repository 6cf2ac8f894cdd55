package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer/httpapi"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *httpapi.Client {
	return httpapi.New(&http.Client{Transport: fn}, "http://analysis.internal/", "test-token")
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func Test_Analyze_success(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "http://analysis.internal/v1/analyze", r.URL.String())
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			ScannerKey string `json:"scanner_key"`
			TargetURL  string `json:"target_url"`
			ScanType   string `json:"scan_type"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "content_quality", req.ScannerKey)
		require.Equal(t, "https://example.com", req.TargetURL)
		require.Equal(t, "single", req.ScanType)

		return jsonResponse(http.StatusOK,
			`{"output":{"score":87},"prompt_log":"system: ..."}`), nil
	})

	res, err := client.Analyze(context.Background(), analyzer.Request{
		ScannerKey: "content_quality",
		TargetURL:  "https://example.com",
		ScanType:   "single",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"score":87}`, string(res.Output))
	require.Equal(t, "system: ...", res.PromptLog)
}

func Test_Analyze_unknownScanner(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"no such scanner"}`), nil
	})

	_, err := client.Analyze(context.Background(), analyzer.Request{ScannerKey: "nope"})
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func Test_Analyze_rateLimited(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `slow down`), nil
	})

	_, err := client.Analyze(context.Background(), analyzer.Request{ScannerKey: "content_quality"})
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func Test_Analyze_serverError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream timeout`), nil
	})

	_, err := client.Analyze(context.Background(), analyzer.Request{ScannerKey: "content_quality"})
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func Test_Analyze_emptyPayload(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"prompt_log":"..."}`), nil
	})

	_, err := client.Analyze(context.Background(), analyzer.Request{ScannerKey: "content_quality"})
	require.ErrorContains(t, err, "empty payload")
}
