// Package providers - term.go renders the backend query string.
package providers

import (
	"fmt"
	"strings"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// BuildTerm renders the query string shared by every backend. All known
// first-name variants are OR-ed so a single call covers formal and
// diminutive forms:
//
//	("William" OR "Bill") "Smith" obituary Columbus OH
//
// City, state, and free keywords are appended only when present.
func BuildTerm(q types.NormalizedQuery) string {
	parts := make([]string, 0, 5)

	if clause := firstNameClause(q.FirstNameVariants); clause != "" {
		parts = append(parts, clause)
	}
	if q.NormalizedLastName != "" {
		parts = append(parts, fmt.Sprintf("%q", q.NormalizedLastName))
	}
	parts = append(parts, "obituary")
	if q.NormalizedCity != "" {
		parts = append(parts, q.NormalizedCity)
	}
	if q.NormalizedState != "" {
		parts = append(parts, q.NormalizedState)
	}
	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		parts = append(parts, kw)
	}

	return strings.Join(parts, " ")
}

func firstNameClause(variants []string) string {
	switch len(variants) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%q", variants[0])
	}
	quoted := make([]string, len(variants))
	for i, v := range variants {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}
