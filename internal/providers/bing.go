// Package providers - bing.go adapts the Bing Web Search v7 REST API.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

const (
	// bingEndpoint is the Web Search v7 entry point.
	bingEndpoint = "https://api.bing.microsoft.com/v7.0/search"
	// bingHitCount is the number of results requested per call.
	bingHitCount = 10
	// bingTimeout bounds one REST call.
	bingTimeout = 30 * time.Second
)

// BingProvider queries the Bing Web Search REST API.
type BingProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
	cache    *HitCache
}

// NewBing creates a Bing provider from a subscription key.
func NewBing(apiKey string, cache *HitCache) *BingProvider {
	return &BingProvider{
		apiKey:   apiKey,
		endpoint: bingEndpoint,
		client:   &http.Client{Timeout: bingTimeout},
		cache:    cache,
	}
}

// Name returns the backend identifier.
func (p *BingProvider) Name() string { return config.ProviderBing }

// Kind reports general hits that need heuristic extraction.
func (p *BingProvider) Kind() string { return types.ProviderTypeGeneral }

// Search issues one REST call and extracts candidates from the web pages
// answer.
func (p *BingProvider) Search(ctx context.Context, q types.NormalizedQuery) ([]types.Candidate, error) {
	term := BuildTerm(q)
	hits, ok := p.cache.Get(p.Name(), term)
	if !ok {
		var err error
		hits, err = p.fetchHits(ctx, term)
		if err != nil {
			return nil, err
		}
		p.cache.Add(p.Name(), term, hits)
	}
	return CandidatesFromHits(hits, q, p.Name(), p.Kind()), nil
}

// bingResponse mirrors the slice of the Web Search answer we consume.
type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

func (p *BingProvider) fetchHits(ctx context.Context, term string) ([]RawHit, error) {
	endpoint, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid bing endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("q", term)
	query.Set("count", strconv.Itoa(bingHitCount))
	query.Set("mkt", "en-US")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bing request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bing returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded bingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode bing response: %w", err)
	}

	hits := make([]RawHit, 0, len(decoded.WebPages.Value))
	for _, page := range decoded.WebPages.Value {
		hits = append(hits, RawHit{
			Title:   page.Name,
			Snippet: page.Snippet,
			Link:    page.URL,
		})
	}
	return hits, nil
}
