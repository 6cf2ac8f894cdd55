package scan

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
)

// urlPattern accepts http(s) URLs with a plausible hostname and a restricted
// character set for the rest. Deliberately strict: this is the gate on every
// URL a scan ever touches.
var urlPattern = regexp.MustCompile(
	`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)

// payloadMarkers are substrings that disqualify a URL outright regardless of
// shape: script and data-URI payloads smuggled into an otherwise valid URL.
var payloadMarkers = []string{"javascript:", "data:", "<script"} //nolint: gochecknoglobals

// ValidateURL checks raw against the strict scheme://host pattern, rejects
// script/data-URI payloads, and returns the normalized form. Any failure is
// an ErrInvalidURL; callers must perform no side effects after one.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", serrors.With(serrors.ErrInvalidURL, "URL is empty")
	}

	lowered := strings.ToLower(trimmed)
	for _, marker := range payloadMarkers {
		if strings.Contains(lowered, marker) {
			return "", serrors.With(serrors.ErrInvalidURL, "URL contains a disallowed payload")
		}
	}

	if !urlPattern.MatchString(trimmed) {
		return "", serrors.With(serrors.ErrInvalidURL, "URL %q is not a valid http(s) URL", trimmed)
	}

	normalized, err := NormalizeURL(trimmed)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrInvalidURL, err, "could not normalize URL")
	}

	return normalized, nil
}

// NormalizeURL returns a canonical representation of a URL string.
//
// The normalization rules are intentionally strict and opinionated so that
// equal targets compare equal across scans:
//   - Lower-case the scheme and host
//   - Ensure path is present; empty path becomes "/"
//   - Clean the path (resolve dot-segments, collapse duplicate slashes)
//   - Remove a trailing slash (except for the root path "/")
//   - Drop default ports (http:80, https:443), keep non-default ports
//   - Sort query parameters by key and by value for stable ordering
//   - Remove the fragment
//
// If the input cannot be parsed as a URL, an error is returned.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}

	// lowercase scheme
	u.Scheme = strings.ToLower(u.Scheme)

	// if no path, make it "/"
	if u.Path == "" {
		u.Path = "/"
	}

	// clean path (removes dot-segments, duplicate slashes)
	cleaned := path.Clean(u.Path)

	// keep a leading slash for absolute URLs
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	u.Path = cleaned

	// remove trailing slash (but not for root)
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	// lowercase host and drop default ports
	host := strings.ToLower(u.Host)
	port := ""
	if ph, pp, err := net.SplitHostPort(host); err == nil {
		host, port = ph, pp
	} // else: might be a host without explicit port or IPv6 without port
	// remove default ports for common schemes
	if port != "" {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			u.Host = host
		} else {
			u.Host = net.JoinHostPort(host, port)
		}
	} else {
		u.Host = host
	}

	// sort query params (keys and values)
	if u.RawQuery != "" {
		q := u.Query()
		// sort each value slice
		for k := range q {
			sort.Strings(q[k])
		}
		// url.Values.Encode() sorts keys lexicographically
		u.RawQuery = q.Encode()
	}

	// remove fragment
	u.Fragment = ""

	return u.String(), nil
}
