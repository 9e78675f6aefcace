// Package providers - hits.go converts raw backend hits into candidates.
package providers

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/dedupe"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/extract"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// RawHit is the provider-neutral shape of one backend search result.
type RawHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Link    string `json:"link"`
}

// CandidatesFromHits runs every hit through heuristic extraction, preserving
// hit order.
func CandidatesFromHits(hits []RawHit, q types.NormalizedQuery, source, kind string) []types.Candidate {
	if len(hits) == 0 {
		return nil
	}
	candidates := make([]types.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, CandidateFromHit(hit, q, source, kind))
	}
	return candidates
}

// CandidateFromHit extracts the structured fields of one raw hit. Extraction
// never fails; fields that cannot be recognized stay absent and score as
// neutral downstream. Score and reasons are left zero, the scorer owns them.
func CandidateFromHit(hit RawHit, q types.NormalizedQuery, source, kind string) types.Candidate {
	c := types.Candidate{
		ID:           uuid.New().String(),
		Source:       source,
		URL:          hit.Link,
		Snippet:      hit.Snippet,
		ProviderType: kind,
	}

	if name, ok := extract.Name(hit.Title, hit.Snippet, hit.Link); ok {
		c.FirstName = name.First
		c.MiddleName = name.Middle
		c.LastName = name.Last
		c.FullName = name.FullName()
	} else {
		c.FullName = strings.TrimSpace(hit.Title)
	}

	if age, ok := extract.Age(hit.Snippet, hit.Title); ok {
		c.AgeYears = age
	}
	if dod, ok := extract.DeathDate(hit.Snippet, hit.Title); ok {
		c.DOD = dod
	}
	c.DateVisitation, c.DateFuneral = extract.ServiceDates(hit.Snippet, c.DOD)

	if city, state, ok := extract.Location(hit.Snippet); ok {
		c.City, c.State = city, state
	} else if city, state, ok := extract.Location(hit.Title); ok {
		c.City, c.State = city, state
	}

	c.Fingerprint = fingerprintFor(c, q)
	return c
}

// fingerprintFor derives the candidate's identity key. Name components fall
// back to the query when extraction found none, so hits about the searched
// person still collide; city, state, and date of death stay extraction-only.
func fingerprintFor(c types.Candidate, q types.NormalizedQuery) string {
	last := c.LastName
	if last == "" {
		last = q.NormalizedLastName
	}
	first := c.FirstName
	if first == "" {
		first = q.NormalizedFirstName
	}
	return dedupe.Fingerprint(last, first, c.City, c.State, c.DOD)
}
