// Package types provides type definitions for structured data used throughout the obituary search pipeline.
package types

import "strings"

// ObitQuery describes the person being searched for. LastName is required and
// at least one of FirstName/Nickname must be present; everything else narrows
// the search when known.
type ObitQuery struct {
	LastName   string `json:"last_name" validate:"required,min=1"`
	FirstName  string `json:"first_name,omitempty" validate:"required_without=Nickname"`
	Nickname   string `json:"nickname,omitempty" validate:"required_without=FirstName"`
	MiddleName string `json:"middle_name,omitempty"`
	AgeApprox  int    `json:"age_approx,omitempty" validate:"omitempty,gte=0,lte=130"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Keywords   string `json:"keywords,omitempty"`
	InputDate  string `json:"input_date,omitempty"`
}

// Validate checks the query fields against their constraints.
func (q *ObitQuery) Validate() error {
	return validate.Struct(q)
}

// NormalizedQuery is an ObitQuery after canonicalization, plus the derived
// search identity. SearchKey is a pure function of the normalized fields and
// age: identical real-world queries always collide onto the same key, which is
// what scopes exclusions.
type NormalizedQuery struct {
	ObitQuery

	NormalizedFirstName string `json:"normalized_first_name"`
	NormalizedLastName  string `json:"normalized_last_name"`
	NormalizedCity      string `json:"normalized_city,omitempty"`
	// NormalizedState is the canonical 2-letter code when recognized;
	// unrecognized input passes through unchanged.
	NormalizedState string `json:"normalized_state,omitempty"`
	// FirstNameVariants holds the literal first name plus every known nickname
	// expansion, deduplicated, literal name first.
	FirstNameVariants []string `json:"first_name_variants"`
	SearchKey         string   `json:"search_key"`
}

// HasVariant reports whether name is one of the known first-name variants.
// Comparison is case-insensitive.
func (nq *NormalizedQuery) HasVariant(name string) bool {
	for _, v := range nq.FirstNameVariants {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}

// RankedResult is a terminal output entity: a candidate with its final score
// and 1-based rank. Immutable once produced.
type RankedResult struct {
	Candidate

	FinalScore int `json:"final_score"`
	Rank       int `json:"rank"`
}

// SearchResult is the full response of one orchestration run.
type SearchResult struct {
	SearchKey string         `json:"search_key"`
	Results   []RankedResult `json:"results"`
}
