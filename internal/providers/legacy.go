// Package providers - legacy.go adapts a Legacy.com style obituary search
// site. Unlike the general web-search adapters, result cards carry structured
// fields that are read off the page directly instead of recovered by
// heuristics.
package providers

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/extract"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/fetch"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// Result-card selectors for Legacy.com style search pages. Comma groups keep
// older markup working after a site redesign.
const (
	legacyCardSelector     = ".obit-card, .search-result, article[data-obituary]"
	legacyNameSelector     = ".obit-name, .result-name, h2, h3"
	legacyDatesSelector    = ".obit-dates, .result-dates, .life-span"
	legacyLocationSelector = ".obit-location, .result-location"
	legacyAgeSelector      = ".obit-age, .result-age"
	legacySnippetSelector  = ".obit-snippet, .result-snippet, p"
)

// LegacyProvider scrapes an obituary site's search page. Pages are fetched
// over plain HTTP first; when the site serves a thin JS app shell and
// useBrowser is on, the page is re-rendered with a headless browser.
type LegacyProvider struct {
	baseURL    string
	useBrowser bool
	pages      *PageCache
}

// NewLegacy creates a native provider rooted at baseURL.
func NewLegacy(baseURL string, useBrowser bool) *LegacyProvider {
	return &LegacyProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		useBrowser: useBrowser,
		pages:      NewPageCache(DefaultPageCacheSize),
	}
}

// Name returns the backend identifier.
func (p *LegacyProvider) Name() string { return config.ProviderLegacy }

// Kind reports native hits whose fields win on merge.
func (p *LegacyProvider) Kind() string { return types.ProviderTypeNative }

// Search fetches the site's search page for the query term and parses every
// result card into a candidate.
func (p *LegacyProvider) Search(ctx context.Context, q types.NormalizedQuery) ([]types.Candidate, error) {
	term := BuildTerm(q)
	page, ok := p.pages.Get(term)
	if !ok {
		var err error
		page, err = p.fetchSearchPage(ctx, term)
		if err != nil {
			return nil, err
		}
		p.pages.Add(term, page)
	}

	cards, err := parseCards(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy search page: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(cards))
	for _, card := range cards {
		candidates = append(candidates, p.candidateFromCard(card, q))
	}
	return candidates, nil
}

func (p *LegacyProvider) searchURL(term string) string {
	return fmt.Sprintf("%s/search?q=%s", p.baseURL, url.QueryEscape(term))
}

func (p *LegacyProvider) fetchSearchPage(ctx context.Context, term string) (string, error) {
	searchURL := p.searchURL(term)
	res, err := fetch.URL(ctx, searchURL, nil)
	if err != nil {
		return "", err
	}
	if p.useBrowser {
		text, terr := fetch.ExtractMainText(res.HTML, fetch.DefaultTextSelectors())
		if terr != nil || fetch.ShouldUseBrowser(text) {
			log.Printf("[PROVIDER] legacy: thin response from %s, rendering with browser", searchURL)
			return fetch.WithBrowser(ctx, searchURL, fetch.DefaultTimeout, false)
		}
	}
	return res.HTML, nil
}

// legacyCard is one parsed search-result card.
type legacyCard struct {
	Name     string
	Dates    string
	Location string
	AgeText  string
	Snippet  string
	Link     string
}

func parseCards(page string) ([]legacyCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var cards []legacyCard
	doc.Find(legacyCardSelector).Each(func(_ int, sel *goquery.Selection) {
		card := legacyCard{
			Name:     strings.TrimSpace(sel.Find(legacyNameSelector).First().Text()),
			Dates:    strings.TrimSpace(sel.Find(legacyDatesSelector).First().Text()),
			Location: strings.TrimSpace(sel.Find(legacyLocationSelector).First().Text()),
			AgeText:  strings.TrimSpace(sel.Find(legacyAgeSelector).First().Text()),
			Snippet:  strings.TrimSpace(sel.Find(legacySnippetSelector).First().Text()),
		}
		if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
			card.Link = strings.TrimSpace(href)
		}
		if card.Name != "" && card.Link != "" {
			cards = append(cards, card)
		}
	})
	return cards, nil
}

func (p *LegacyProvider) candidateFromCard(card legacyCard, q types.NormalizedQuery) types.Candidate {
	c := types.Candidate{
		ID:           uuid.New().String(),
		Source:       p.Name(),
		URL:          p.resolveLink(card.Link),
		Snippet:      card.Snippet,
		ProviderType: p.Kind(),
	}

	name := splitDisplayName(card.Name)
	c.FirstName = name.First
	c.MiddleName = name.Middle
	c.LastName = name.Last
	if c.LastName != "" {
		c.FullName = name.FullName()
	} else {
		c.FullName = card.Name
	}

	if dod, ok := deathFromRange(card.Dates); ok {
		c.DOD = dod
	}
	if city, state, ok := splitLocation(card.Location); ok {
		c.City, c.State = city, state
	}
	if age, ok := parseAge(card.AgeText); ok {
		c.AgeYears = age
	}

	c.Fingerprint = fingerprintFor(c, q)
	return c
}

func (p *LegacyProvider) resolveLink(href string) string {
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// splitDisplayName breaks a card's display name into components. Cards show
// names first-first ("William Arthur Smith"), so the outer tokens are first
// and last and anything between is the middle name.
func splitDisplayName(display string) extract.PersonName {
	fields := strings.Fields(display)
	if len(fields) < 2 {
		return extract.PersonName{}
	}
	return extract.PersonName{
		First:  normalize.Name(fields[0]),
		Middle: strings.TrimSuffix(normalize.Name(strings.Join(fields[1:len(fields)-1], " ")), "."),
		Last:   normalize.Name(fields[len(fields)-1]),
	}
}

var reDateRangeSplit = regexp.MustCompile(`\s+[-–—]\s+`)

// deathFromRange reads the right side of a "birth - death" span. A card that
// shows only years yields no usable date of death.
func deathFromRange(dates string) (string, bool) {
	if dates == "" {
		return "", false
	}
	parts := reDateRangeSplit.Split(dates, -1)
	return extract.NormalizeDateToken(strings.TrimSpace(parts[len(parts)-1]))
}

func splitLocation(s string) (city, state string, ok bool) {
	rawCity, rawState, found := strings.Cut(s, ",")
	if !found {
		return "", "", false
	}
	code := normalize.State(strings.TrimSpace(rawState))
	if !normalize.IsStateCode(code) {
		return "", "", false
	}
	return normalize.City(rawCity), code, true
}

var reAgeDigits = regexp.MustCompile(`\d{1,3}`)

func parseAge(s string) (int, bool) {
	m := reAgeDigits.FindString(s)
	if m == "" {
		return 0, false
	}
	age, err := strconv.Atoi(m)
	if err != nil || age < 1 || age > 120 {
		return 0, false
	}
	return age, true
}
