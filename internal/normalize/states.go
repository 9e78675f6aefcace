package normalize

import (
	"sort"
	"strings"
)

// stateCodes is the fixed set of valid US state codes (50 states plus DC).
// Location extraction rejects any other two-letter sequence even when it looks
// like a code.
var stateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "DC": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {},
	"IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {},
	"NV": {}, "NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {},
	"OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {},
	"TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {},
	"WI": {}, "WY": {},
}

// stateNames maps lower-cased full state names to canonical codes.
var stateNames = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT",
	"delaware": "DE", "district of columbia": "DC", "florida": "FL",
	"georgia": "GA", "hawaii": "HI", "idaho": "ID", "illinois": "IL",
	"indiana": "IN", "iowa": "IA", "kansas": "KS", "kentucky": "KY",
	"louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC",
	"north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

// IsStateCode reports whether s is exactly a member of the valid state-code
// set. The check is case-sensitive; callers normalize first.
func IsStateCode(s string) bool {
	_, ok := stateCodes[s]
	return ok
}

// StateNames returns the recognized full state names, title-cased, sorted
// longest first so regex alternations match "West Virginia" before
// "Virginia".
func StateNames() []string {
	names := make([]string, 0, len(stateNames))
	for n := range stateNames {
		names = append(names, titleCase(n))
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// StateForName returns the canonical code for a full state name
// (case-insensitive) and whether the name was recognized.
func StateForName(name string) (string, bool) {
	code, ok := stateNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// State canonicalizes a state value: two-letter codes are accepted in any
// casing, full names map to their code, and anything unrecognized passes
// through unchanged.
func State(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 2 {
		upper := strings.ToUpper(trimmed)
		if IsStateCode(upper) {
			return upper
		}
		return trimmed
	}
	if code, ok := StateForName(trimmed); ok {
		return code
	}
	return trimmed
}
