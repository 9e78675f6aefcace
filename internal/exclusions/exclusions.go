// Package exclusions suppresses candidates the user has dismissed in earlier
// searches. Suppressions are matched by fingerprint or by normalized URL and
// may be scoped to one search key or applied globally.
package exclusions

import (
	"context"
	"strings"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// Store is the read side of the exclusion repository. Both lookups return the
// union of global entries and entries scoped to searchKey.
type Store interface {
	ExcludedFingerprints(ctx context.Context, searchKey string) ([]string, error)
	ExcludedURLs(ctx context.Context, searchKey string) ([]string, error)
}

// Snapshot is one consistent read of the exclusion sets for a single search.
// The zero value excludes nothing.
type Snapshot struct {
	fingerprints map[string]struct{}
	urls         map[string]struct{}
}

// NewSnapshot builds a snapshot from raw set members. URLs are normalized on
// the way in so stored entries match regardless of how they were written.
func NewSnapshot(fingerprints, urls []string) Snapshot {
	s := Snapshot{
		fingerprints: make(map[string]struct{}, len(fingerprints)),
		urls:         make(map[string]struct{}, len(urls)),
	}
	for _, fp := range fingerprints {
		if fp != "" {
			s.fingerprints[fp] = struct{}{}
		}
	}
	for _, u := range urls {
		if n := NormalizeURL(u); n != "" {
			s.urls[n] = struct{}{}
		}
	}
	return s
}

// Load reads both exclusion sets for searchKey from the store.
func Load(ctx context.Context, store Store, searchKey string) (Snapshot, error) {
	fingerprints, err := store.ExcludedFingerprints(ctx, searchKey)
	if err != nil {
		return Snapshot{}, err
	}
	urls, err := store.ExcludedURLs(ctx, searchKey)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(fingerprints, urls), nil
}

// Excludes reports whether the candidate is suppressed. Matching either set
// is sufficient.
func (s Snapshot) Excludes(c types.Candidate) bool {
	if c.Fingerprint != "" {
		if _, hit := s.fingerprints[c.Fingerprint]; hit {
			return true
		}
	}
	if n := NormalizeURL(c.URL); n != "" {
		if _, hit := s.urls[n]; hit {
			return true
		}
	}
	return false
}

// Len reports how many entries the snapshot holds across both sets.
func (s Snapshot) Len() int {
	return len(s.fingerprints) + len(s.urls)
}

// Filter returns the candidates the snapshot does not suppress, keeping
// input order.
func Filter(candidates []types.Candidate, snap Snapshot) []types.Candidate {
	if snap.Len() == 0 {
		return candidates
	}
	kept := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !snap.Excludes(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

// NormalizeURL lower-cases a URL and strips its query string and fragment, so
// tracking parameters never defeat an exclusion.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(raw)
}
