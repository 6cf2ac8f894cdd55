package registry_test

import (
	"testing"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/registry"
	"github.com/stretchr/testify/require"
)

func Test_New_keepsOrderAndDedupes(t *testing.T) {
	r, err := registry.New([]string{" content_quality ", "seo_signals", "content_quality", "", "security_headers"})
	require.NoError(t, err)
	require.Equal(t, []string{"content_quality", "seo_signals", "security_headers"}, r.Keys())
	require.Equal(t, 3, r.Len())
}

func Test_New_empty(t *testing.T) {
	_, err := registry.New([]string{"", "  "})
	require.Error(t, err)
}

func Test_Contains(t *testing.T) {
	r, err := registry.New([]string{"content_quality"})
	require.NoError(t, err)
	require.True(t, r.Contains("content_quality"))
	require.False(t, r.Contains("seo_signals"))
}

func Test_Keys_returnsCopy(t *testing.T) {
	r, err := registry.New([]string{"a", "b"})
	require.NoError(t, err)

	keys := r.Keys()
	keys[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, r.Keys())
}
