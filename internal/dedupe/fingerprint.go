// Package dedupe groups candidates that denote the same person and merges
// each group into a single record.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the deterministic identity key for a person/event
// tuple. Candidates sharing a fingerprint are treated as the same person and
// become merge-eligible. Casing never changes the key.
func Fingerprint(lastName, firstName, city, state, dod string) string {
	joined := strings.ToLower(strings.Join([]string{lastName, firstName, city, state, dod}, "|"))
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:16]
}
