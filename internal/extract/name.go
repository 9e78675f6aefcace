// Package extract - name.go extracts person names from titles, snippets, and URLs.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
)

// PersonName is an extracted name broken into components. First and Last are
// always present on a valid extraction; Middle may be a full name or a bare
// initial.
type PersonName struct {
	First  string
	Middle string
	Last   string
}

// FullName joins the non-empty components.
func (n PersonName) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.First, n.Middle, n.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

const (
	firstPart  = `([A-Z][A-Za-z'\x{2019}\-]+)`
	middlePart = `((?:[A-Z]\.?|[A-Z][A-Za-z'\x{2019}\-]+\.?))`
	lastPart   = `([A-Z][A-Za-z'\x{2019}\-]+)`
)

// Title patterns, tried in order. Group order is normalized by the helpers so
// every pattern yields (first, middle, last).
var (
	// "Smith, William A. | Obituaries"
	reTitleLastFirst = regexp.MustCompile(`^\s*` + lastPart + `,\s+` + firstPart + `(?:\s+` + middlePart + `)?`)
	// "Obituaries | Smith, William"
	reTitleObitLastFirst = regexp.MustCompile(`[Oo]bituar\w*\W{1,3}` + lastPart + `,\s+` + firstPart + `(?:\s+` + middlePart + `)?`)
	// "William A. Smith Obituary - Columbus, OH"
	reTitleNameObituary = regexp.MustCompile(firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart + `(?:'s)?\s+[Oo]bituary`)
	// "Obituary of William Smith", "Obituary: William Smith"
	reTitleObituaryOf = regexp.MustCompile(`[Oo]bituary\s*(?:of|for|:)\s*` + firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart)
	// "William Smith, 81, of Columbus" as a leading title segment
	reTitleLeadingName = regexp.MustCompile(`^\s*` + firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart + `\s*(?:,|\||\x{2013}|\x{2014}|-|\(|\bag(?:e|ed)\b|\bdies\b|\bpassed\b|$)`)
)

// Snippet patterns, tried after the title chain comes up generic.
var (
	reSnippetObitFor  = regexp.MustCompile(`[Oo]bituary\s+(?:of|for)\s+` + firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart)
	reSnippetMemoryOf = regexp.MustCompile(`[Ii]n\s+[Ll]oving\s+[Mm]emory\s+of\s+` + firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart)
	reSnippetNameAge  = regexp.MustCompile(firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart + `,?\s+(?:age[d]?\s+)?\d{1,3},`)
	reSnippetNameDied = regexp.MustCompile(firstPart + `(?:\s+` + middlePart + `)?\s+` + lastPart + `(?:,?\s+of\s+[A-Z][a-z'\-]+(?:\s+[A-Z][a-z'\-]+)?,?)?\s+(?:passed away|died)`)
)

// placeholderWords are tokens that regularly land in name positions on index
// and search pages; a name containing one is rejected.
var placeholderWords = map[string]struct{}{
	"obituary": {}, "obituaries": {}, "obit": {}, "obits": {},
	"memorial": {}, "memorials": {}, "memoriam": {},
	"funeral": {}, "funerals": {}, "home": {}, "homes": {},
	"search": {}, "results": {}, "result": {},
	"notice": {}, "notices": {}, "death": {}, "deaths": {},
	"legacy": {}, "tribute": {}, "tributes": {}, "guestbook": {},
	"service": {}, "services": {}, "archive": {}, "archives": {},
	"county": {}, "welcome": {}, "page": {}, "index": {},
	"online": {}, "recent": {}, "local": {}, "news": {},
	"daily": {}, "herald": {}, "times": {}, "gazette": {},
	"dispatch": {}, "journal": {}, "loving": {}, "memory": {},
	"the": {}, "and": {}, "for": {},
}

// Name runs the ordered extraction chain: title patterns, then snippet
// patterns when the title result is generic or invalid, then URL path
// segments. Returns ok=false when no tier produced a valid name.
func Name(title, snippet, rawURL string) (PersonName, bool) {
	if n, ok := NameFromTitle(title); ok {
		return n, true
	}
	if n, ok := NameFromSnippet(snippet); ok {
		return n, true
	}
	return NameFromURL(rawURL)
}

// NameFromTitle extracts a person name from a hit title.
func NameFromTitle(title string) (PersonName, bool) {
	if title == "" {
		return PersonName{}, false
	}

	// Last-name-first forms.
	for _, re := range []*regexp.Regexp{reTitleLastFirst, reTitleObitLastFirst} {
		if m := re.FindStringSubmatch(title); m != nil {
			if n, ok := buildName(m[2], m[3], m[1]); ok {
				return n, true
			}
		}
	}
	// First-name-first forms.
	for _, re := range []*regexp.Regexp{reTitleNameObituary, reTitleObituaryOf, reTitleLeadingName} {
		if m := re.FindStringSubmatch(title); m != nil {
			if n, ok := buildName(m[1], m[2], m[3]); ok {
				return n, true
			}
		}
	}
	return PersonName{}, false
}

// NameFromSnippet extracts a person name from a hit snippet.
func NameFromSnippet(snippet string) (PersonName, bool) {
	if snippet == "" {
		return PersonName{}, false
	}
	for _, re := range []*regexp.Regexp{reSnippetObitFor, reSnippetMemoryOf, reSnippetNameAge, reSnippetNameDied} {
		if m := re.FindStringSubmatch(snippet); m != nil {
			if n, ok := buildName(m[1], m[2], m[3]); ok {
				return n, true
			}
		}
	}
	return PersonName{}, false
}

// NameFromURL derives a name from URL path segments like
// "/obituaries/william-smith-1234567". Segments directly following an
// obituary-ish segment are preferred; numeric tokens are dropped.
func NameFromURL(rawURL string) (PersonName, bool) {
	if rawURL == "" {
		return PersonName{}, false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return PersonName{}, false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	preferred := make([]string, 0, len(segments))
	rest := make([]string, 0, len(segments))
	for i, seg := range segments {
		if i > 0 && isObitSegment(segments[i-1]) {
			preferred = append(preferred, seg)
		} else {
			rest = append(rest, seg)
		}
	}

	for _, seg := range append(preferred, rest...) {
		if n, ok := nameFromSlug(seg); ok {
			return n, true
		}
	}
	return PersonName{}, false
}

func isObitSegment(seg string) bool {
	seg = strings.ToLower(seg)
	return strings.Contains(seg, "obituar") || strings.Contains(seg, "memorial") || strings.Contains(seg, "tribute")
}

var reAlphaToken = regexp.MustCompile(`^[A-Za-z'\-]+$`)

func nameFromSlug(seg string) (PersonName, bool) {
	tokens := strings.Split(seg, "-")
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !reAlphaToken.MatchString(tok) {
			continue
		}
		if _, bad := placeholderWords[strings.ToLower(tok)]; bad {
			continue
		}
		if normalize.IsStateCode(strings.ToUpper(tok)) && len(tok) == 2 {
			continue
		}
		words = append(words, tok)
	}
	if len(words) < 2 {
		return PersonName{}, false
	}

	first := words[0]
	last := words[len(words)-1]
	middle := strings.Join(words[1:len(words)-1], " ")
	return buildName(first, middle, last)
}

// buildName cleans components and applies the validity rule: a name is valid
// iff both first and last are present, alphabetic, and non-placeholder. A
// literal state code in either slot, or a state name in the last slot, marks
// a matched "City, ST" fragment rather than a person.
func buildName(first, middle, last string) (PersonName, bool) {
	if isStateToken(first) || isStateToken(last) {
		return PersonName{}, false
	}
	if _, isState := normalize.StateForName(last); isState {
		return PersonName{}, false
	}
	n := PersonName{
		First:  normalize.Name(first),
		Middle: normalize.Name(strings.TrimSuffix(middle, ".")),
		Last:   normalize.Name(last),
	}
	if !validComponent(n.First) || !validComponent(n.Last) {
		return PersonName{}, false
	}
	return n, true
}

// isStateToken reports whether the raw token is a two-letter state code as
// written. Title-cased words like "Al" are left alone.
func isStateToken(raw string) bool {
	return len(raw) == 2 && normalize.IsStateCode(raw)
}

func validComponent(c string) bool {
	if len(c) < 2 {
		return false
	}
	for _, r := range c {
		if !isNameRune(r) {
			return false
		}
	}
	_, bad := placeholderWords[strings.ToLower(c)]
	return !bad
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '\'' || r == '-' || r == ' ':
		return true
	}
	return false
}
