// Package dedupe - dedupe.go implements fingerprint grouping and group merge.
package dedupe

import (
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// Merge collapses candidates sharing a fingerprint into one record per group.
// Group order follows the first appearance of each fingerprint; members keep
// their input order inside a group. Candidates without a fingerprint are never
// grouped and pass through unchanged. Merge is idempotent.
func Merge(candidates []types.Candidate) []types.Candidate {
	if len(candidates) <= 1 {
		return candidates
	}

	type group struct {
		members []types.Candidate
	}
	order := make([]*group, 0, len(candidates))
	byFingerprint := make(map[string]*group, len(candidates))

	for _, c := range candidates {
		if c.Fingerprint == "" {
			order = append(order, &group{members: []types.Candidate{c}})
			continue
		}
		g, seen := byFingerprint[c.Fingerprint]
		if !seen {
			g = &group{}
			byFingerprint[c.Fingerprint] = g
			order = append(order, g)
		}
		g.members = append(g.members, c)
	}

	merged := make([]types.Candidate, 0, len(order))
	for _, g := range order {
		merged = append(merged, mergeGroup(g.members))
	}
	return merged
}

// mergeGroup merges one fingerprint group. The base is the highest-scoring
// member, input order breaking ties. Every other member's URL, plus any
// pre-existing alsoFoundAt entry in the group, lands in the merged
// alsoFoundAt unless it duplicates the base URL. When a non-base member came
// from a native source its name, location, and date fields replace the
// base's; the base's score and reasons are kept so the retained score never
// changes provenance silently.
func mergeGroup(members []types.Candidate) types.Candidate {
	if len(members) == 1 {
		return members[0]
	}

	baseIdx := 0
	for i, m := range members {
		if m.Score > members[baseIdx].Score {
			baseIdx = i
		}
	}
	base := members[baseIdx]

	var alsoFound []string
	seen := make(map[string]struct{}, len(members))
	collect := func(url string) {
		if url == "" || url == base.URL {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		alsoFound = append(alsoFound, url)
	}

	nativeIdx := -1
	for i, m := range members {
		if i != baseIdx {
			collect(m.URL)
		}
		for _, url := range m.AlsoFoundAt {
			collect(url)
		}
		if nativeIdx < 0 && i != baseIdx && m.ProviderType == types.ProviderTypeNative {
			nativeIdx = i
		}
	}

	out := base
	out.AlsoFoundAt = alsoFound
	if nativeIdx >= 0 {
		native := members[nativeIdx]
		out.FullName = native.FullName
		out.FirstName = native.FirstName
		out.MiddleName = native.MiddleName
		out.LastName = native.LastName
		out.City = native.City
		out.State = native.State
		out.DOD = native.DOD
		out.DateVisitation = native.DateVisitation
		out.DateFuneral = native.DateFuneral
	}
	return out
}
