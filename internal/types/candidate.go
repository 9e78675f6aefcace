// Package types provides type definitions for structured data used throughout the obituary search pipeline.
package types

// Provider type labels. Native sources return structured obituary records and
// are assumed more complete for display; general sources return raw search
// hits that go through heuristic extraction.
const (
	ProviderTypeGeneral = "general"
	ProviderTypeNative  = "native"
)

// Candidate is one parsed search hit hypothesized to match the search subject.
// Created by exactly one provider adapter; score and reasons are set by the
// scorer; identity fields may be replaced and AlsoFoundAt populated by the
// deduplicator. Dates are "YYYY-MM-DD" when they parsed cleanly, otherwise the
// raw extracted token.
type Candidate struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	AgeYears   int    `json:"age_years,omitempty"`
	// DOD is the extracted date of death.
	DOD            string `json:"dod,omitempty"`
	DateVisitation string `json:"date_visitation,omitempty"`
	DateFuneral    string `json:"date_funeral,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`

	Source  string `json:"source"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`

	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`

	Fingerprint  string `json:"fingerprint"`
	ProviderType string `json:"provider_type"`
	// AlsoFoundAt lists URLs of duplicate hits absorbed during merge. Omitted
	// entirely when no duplicates were found.
	AlsoFoundAt []string `json:"also_found_at,omitempty"`
}
