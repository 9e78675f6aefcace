// Package extract - dates.go recognizes death and service dates in hit text.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	monthNames = `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`
	// dateToken matches "June 8, 2024", "Jan. 5 2024", "June 8" (year
	// optional), "6/8/2024", and "2024-06-08".
	dateToken = `(?:(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?|\d{1,2}/\d{1,2}(?:/\d{2,4})?|\d{4}-\d{2}-\d{2})`
)

var (
	reDeathThenDate = regexp.MustCompile(`(?i)(?:died|dies|passed away|passing|death)\b.{0,60}?(` + dateToken + `)`)
	reDateThenDeath = regexp.MustCompile(`(?i)(` + dateToken + `).{0,40}?(?:died|passed away|death)`)

	reVisitationDate = regexp.MustCompile(`(?i)(?:visitation|viewing|calling hours|wake)\b.{0,80}?(` + dateToken + `)`)
	reFuneralDate    = regexp.MustCompile(`(?i)(?:funeral|services?|mass|celebration of life|graveside|interment|burial)\b.{0,80}?(` + dateToken + `)`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parsedDate is a date token broken into components; HasYear distinguishes
// "June 8, 2024" from "June 8".
type parsedDate struct {
	Year    int
	Month   time.Month
	Day     int
	HasYear bool
}

// ISO renders the date as YYYY-MM-DD, substituting year when the token had
// none.
func (d parsedDate) ISO(year int) string {
	if d.HasYear {
		year = d.Year
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(d.Month), d.Day)
}

var reOrdinalSuffix = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`)

// parseDateToken breaks a matched date token into components. Returns
// ok=false for implausible day/month/year combinations.
func parseDateToken(tok string) (parsedDate, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return parsedDate{}, false
	}

	if strings.Contains(tok, "/") {
		return parseSlashDate(tok)
	}
	if len(tok) == 10 && tok[4] == '-' && tok[7] == '-' {
		return parseISODate(tok)
	}

	cleaned := reOrdinalSuffix.ReplaceAllString(tok, "$1")
	cleaned = strings.NewReplacer(".", "", ",", " ").Replace(cleaned)
	fields := strings.Fields(cleaned)
	if len(fields) < 2 {
		return parsedDate{}, false
	}

	month, ok := monthsByName[strings.ToLower(fields[0])]
	if !ok {
		return parsedDate{}, false
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return parsedDate{}, false
	}

	d := parsedDate{Month: month, Day: day}
	if len(fields) >= 3 {
		if year, err := strconv.Atoi(fields[2]); err == nil {
			d.Year = year
			d.HasYear = true
		}
	}
	if !plausibleDate(d) {
		return parsedDate{}, false
	}
	return d, true
}

func parseSlashDate(tok string) (parsedDate, bool) {
	parts := strings.Split(tok, "/")
	if len(parts) < 2 {
		return parsedDate{}, false
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return parsedDate{}, false
	}
	d := parsedDate{Month: time.Month(month), Day: day}
	if len(parts) == 3 {
		year, err := strconv.Atoi(parts[2])
		if err != nil {
			return parsedDate{}, false
		}
		if year < 100 {
			year += 2000
		}
		d.Year = year
		d.HasYear = true
	}
	if !plausibleDate(d) {
		return parsedDate{}, false
	}
	return d, true
}

func parseISODate(tok string) (parsedDate, bool) {
	t, err := time.Parse("2006-01-02", tok)
	if err != nil {
		return parsedDate{}, false
	}
	return parsedDate{Year: t.Year(), Month: t.Month(), Day: t.Day(), HasYear: true}, true
}

func plausibleDate(d parsedDate) bool {
	if d.Day < 1 || d.Day > 31 {
		return false
	}
	if d.HasYear && (d.Year < 1900 || d.Year > 2100) {
		return false
	}
	return true
}

// DeathDate extracts the date of death: a date token near a death-indicating
// keyword, snippet first, then title. Fully-specified dates come back as
// YYYY-MM-DD; a token without a year comes back raw.
func DeathDate(snippet, title string) (string, bool) {
	for _, text := range []string{snippet, title} {
		if text == "" {
			continue
		}
		for _, re := range []*regexp.Regexp{reDeathThenDate, reDateThenDeath} {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			tok := strings.TrimSpace(m[1])
			if d, ok := parseDateToken(tok); ok && d.HasYear {
				return d.ISO(0), true
			}
			return tok, true
		}
	}
	return "", false
}

var reDateToken = regexp.MustCompile(`(?i)` + dateToken)

// NormalizeDateToken canonicalizes a single date expression to YYYY-MM-DD.
// Intended for pages that carry a date field directly, where no keyword
// context is needed. A token without a year comes back raw; text containing
// no date at all is rejected.
func NormalizeDateToken(s string) (string, bool) {
	m := reDateToken.FindString(s)
	if m == "" {
		return "", false
	}
	tok := strings.TrimSpace(m)
	if d, ok := parseDateToken(tok); ok && d.HasYear {
		return d.ISO(0), true
	}
	return tok, true
}

// ServiceDates extracts visitation and funeral dates from the snippet. A date
// missing its year borrows the year from the date of death when one is
// available; otherwise the raw token is kept.
func ServiceDates(snippet, dod string) (visitation, funeral string) {
	dodYear := yearOf(dod)
	visitation = serviceDate(reVisitationDate, snippet, dodYear)
	funeral = serviceDate(reFuneralDate, snippet, dodYear)
	return visitation, funeral
}

func serviceDate(re *regexp.Regexp, snippet string, dodYear int) string {
	if snippet == "" {
		return ""
	}
	m := re.FindStringSubmatch(snippet)
	if m == nil {
		return ""
	}
	tok := strings.TrimSpace(m[1])
	d, ok := parseDateToken(tok)
	if !ok {
		return tok
	}
	if d.HasYear {
		return d.ISO(0)
	}
	if dodYear > 0 {
		return d.ISO(dodYear)
	}
	return tok
}

// yearOf pulls the year out of a previously extracted date string, tolerating
// both normalized and raw forms.
func yearOf(date string) int {
	if date == "" {
		return 0
	}
	if d, ok := parseDateToken(date); ok && d.HasYear {
		return d.Year
	}
	return 0
}
