// Package registry holds the fleet of scanner keys configured for this
// deployment. The set is loaded once at startup and is immutable afterwards;
// every scan snapshots it so that results stay interpretable even if the
// fleet changes between deploys.
package registry

import (
	"fmt"
	"strings"
)

// ScannerRegistry is the immutable, ordered set of scanner keys applied to
// every scan. Safe for concurrent use.
type ScannerRegistry struct {
	keys  []string
	index map[string]struct{}
}

// New builds a registry from the configured key list. Keys are trimmed,
// deduplicated and kept in their configured order. An empty fleet is an
// error: a scan with zero scanners could never complete.
func New(keys []string) (*ScannerRegistry, error) {
	r := &ScannerRegistry{
		index: make(map[string]struct{}, len(keys)),
	}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := r.index[k]; ok {
			continue
		}
		r.index[k] = struct{}{}
		r.keys = append(r.keys, k)
	}
	if len(r.keys) == 0 {
		return nil, fmt.Errorf("scanner registry is empty")
	}

	return r, nil
}

// Keys returns a copy of the scanner keys in run order.
func (r *ScannerRegistry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)

	return out
}

// Contains reports whether the given scanner key is part of the fleet.
func (r *ScannerRegistry) Contains(key string) bool {
	_, ok := r.index[key]

	return ok
}

// Len returns the number of scanners in the fleet.
func (r *ScannerRegistry) Len() int { return len(r.keys) }
