// Package normalize canonicalizes query fields and derives the stable search
// key that scopes exclusions. Normalization never fails: malformed input
// degrades to best-effort pass-through.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// foldDiacritics rewrites accented letters to their base form ("José" ->
// "Jose") so keys and comparisons are accent-insensitive.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Name canonicalizes a personal name: trims, folds diacritics, strips
// punctuation except apostrophes and hyphens, collapses whitespace, and
// title-cases each segment ("  o'brien " -> "O'Brien").
func Name(s string) string {
	s = foldDiacritics(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			b.WriteRune('\'')
		case r == '-':
			b.WriteRune('-')
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			b.WriteRune(' ')
		}
	}
	return titleCase(collapseSpaces(b.String()))
}

// City canonicalizes a city name the same way as Name; periods in abbreviated
// prefixes are dropped, so "St. Louis" and "St Louis" compare equal.
func City(s string) string {
	return Name(s)
}

// collapseSpaces reduces runs of whitespace to single spaces and trims.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase upper-cases the first letter of every word segment, where
// segments are split by spaces, hyphens, and apostrophes, and lower-cases the
// rest ("mary-jane o'brien" -> "Mary-Jane O'Brien").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfSegment := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '\'':
			b.WriteRune(r)
			startOfSegment = true
		case startOfSegment:
			b.WriteRune(unicode.ToUpper(r))
			startOfSegment = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// SearchKey derives the deterministic 16-hex-char identity of a normalized
// query: a SHA-256 over the lower-cased, pipe-joined tuple of last name,
// first name, city, state, and age. Independent of input casing and optional
// field order.
func SearchKey(lastName, firstName, city, state string, age int) string {
	ageStr := ""
	if age > 0 {
		ageStr = strconv.Itoa(age)
	}
	joined := strings.ToLower(strings.Join([]string{lastName, firstName, city, state, ageStr}, "|"))
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:16]
}

// Query canonicalizes an ObitQuery into a NormalizedQuery. Never fails; when
// FirstName is absent the nickname serves as the working first name. The
// variant list starts with the literal working name, then the explicit
// nickname, then table expansions.
func Query(q types.ObitQuery) types.NormalizedQuery {
	nq := types.NormalizedQuery{ObitQuery: q}

	nq.NormalizedLastName = Name(q.LastName)
	first := q.FirstName
	if strings.TrimSpace(first) == "" {
		first = q.Nickname
	}
	nq.NormalizedFirstName = Name(first)
	nq.NormalizedCity = City(q.City)
	nq.NormalizedState = State(q.State)

	nq.FirstNameVariants = buildVariants(nq.NormalizedFirstName, Name(q.Nickname))

	nq.SearchKey = SearchKey(
		nq.NormalizedLastName,
		nq.NormalizedFirstName,
		nq.NormalizedCity,
		nq.NormalizedState,
		q.AgeApprox,
	)
	return nq
}

// buildVariants merges the expansions of the working first name and the
// explicit nickname, literal name first, deduplicated case-insensitively.
func buildVariants(first, nickname string) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(names []string) {
		for _, n := range names {
			key := strings.ToLower(n)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, n)
		}
	}
	add(Variants(first))
	if nickname != "" && !strings.EqualFold(nickname, first) {
		add([]string{nickname})
		add(Variants(nickname))
	}
	return out
}
