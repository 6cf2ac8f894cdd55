package scan_test

import (
	"testing"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/stretchr/testify/require"
)

func Test_ValidateURL_accepts(t *testing.T) {
	cases := map[string]string{
		"plain https":        "https://example.com",
		"www prefix":         "https://www.example.com",
		"path and query":     "https://example.com/pricing?plan=deep",
		"http scheme":        "http://example.org/blog",
		"subdomain":          "https://app.example.io/dashboard",
		"non-default port":   "https://example.com:8443/health",
		"uppercase host":     "https://EXAMPLE.com",
		"trailing whitespace": " https://example.com ",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			normalized, err := scan.ValidateURL(raw)
			require.NoError(t, err)
			require.NotEmpty(t, normalized)
		})
	}
}

func Test_ValidateURL_rejects(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"no scheme":          "example.com",
		"ftp scheme":         "ftp://example.com",
		"javascript payload": "https://example.com/?q=javascript:alert(1)",
		"data uri":           "data:text/html,<h1>x</h1>",
		"script tag":         "https://example.com/<script>alert(1)</script>",
		"bare host no tld":   "https://localhost",
		"spaces inside":      "https://exa mple.com",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scan.ValidateURL(raw)
			require.ErrorIs(t, err, serrors.ErrInvalidURL)
		})
	}
}

func Test_ValidateURL_normalizes(t *testing.T) {
	got, err := scan.ValidateURL("https://Example.COM:443/a/../b/?z=2&a=1")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/b?a=1&z=2", got)
}

func Test_NormalizeURL_dropsFragmentAndDefaultPort(t *testing.T) {
	got, err := scan.NormalizeURL("http://example.com:80/docs/#intro")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/docs", got)
}
