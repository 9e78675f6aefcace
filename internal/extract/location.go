// Package extract - location.go recognizes "City, ST" and "City, StateName" forms.
package extract

import (
	"regexp"
	"strings"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
)

// cityPattern allows abbreviated prefixes (St., Ft., Mt., Pt.) and up to
// three capitalized words ("St. Clair Shores", "New Port Richey").
const cityPattern = `((?:(?:St|Ft|Mt|Pt)\.?\s+)?[A-Z][a-z'\-]+(?:\s+[A-Z][a-z'\-]+){0,2})`

var (
	reCityStateCode = regexp.MustCompile(cityPattern + `,\s*([A-Z]{2})\b`)
	reCityStateName = buildCityStateNameRe()
)

func buildCityStateNameRe() *regexp.Regexp {
	names := normalize.StateNames()
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(cityPattern + `,\s*((?i:` + strings.Join(escaped, "|") + `))\b`)
}

// Location extracts a "<City>, <ST>" pair from text. The two-letter form is
// accepted only when ST is a member of the valid state-code set; sequences
// that merely look like codes are rejected and scanning continues. Full state
// names are recognized and mapped to their code.
func Location(text string) (city, state string, ok bool) {
	if text == "" {
		return "", "", false
	}

	for _, m := range reCityStateCode.FindAllStringSubmatch(text, -1) {
		if normalize.IsStateCode(m[2]) {
			return strings.TrimSpace(m[1]), m[2], true
		}
	}

	if m := reCityStateName.FindStringSubmatch(text); m != nil {
		if code, known := normalize.StateForName(m[2]); known {
			return strings.TrimSpace(m[1]), code, true
		}
	}

	return "", "", false
}
