// Package extract implements the pure heuristic extractors that turn raw
// search-hit text into structured obituary fields. Every function is
// side-effect free: text in, optional fields out. Ambiguity is not an error;
// a field that cannot be recognized is simply absent.
package extract

import (
	"regexp"
	"strconv"
)

// Age patterns, tried in order. Each captures a 1-3 digit group in an
// age-indicating context; bare numbers are never treated as ages.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bage[d]?\s+(\d{1,3})\b`),
	regexp.MustCompile(`(?i)\bage\s*[:\-]\s*(\d{1,3})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,3})\s+years\s+old\b`),
	regexp.MustCompile(`,\s*(\d{1,3})\s*,`),
}

// Age extracts an age in years from the snippet, falling back to the title.
// Returns ok=false when no plausible age is present.
func Age(snippet, title string) (int, bool) {
	if age, ok := ageFromText(snippet); ok {
		return age, ok
	}
	return ageFromText(title)
}

func ageFromText(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	for _, re := range agePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if age >= 1 && age <= 120 {
			return age, true
		}
	}
	return 0, false
}
