// Package providers - google.go adapts the Google Custom Search JSON API.
package providers

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// googleHitCount is the number of results requested per call.
const googleHitCount = 10

// GoogleProvider queries a Programmable Search Engine scoped to obituary
// sites.
type GoogleProvider struct {
	svc   *customsearch.Service
	cx    string
	cache *HitCache
}

// NewGoogle creates a Google provider from an API key and engine ID.
func NewGoogle(ctx context.Context, apiKey, cx string, cache *HitCache) (*GoogleProvider, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleProvider{
		svc:   svc,
		cx:    cx,
		cache: cache,
	}, nil
}

// Name returns the backend identifier.
func (p *GoogleProvider) Name() string { return config.ProviderGoogle }

// Kind reports general hits that need heuristic extraction.
func (p *GoogleProvider) Kind() string { return types.ProviderTypeGeneral }

// Search issues one CSE call and extracts candidates from the returned items.
func (p *GoogleProvider) Search(ctx context.Context, q types.NormalizedQuery) ([]types.Candidate, error) {
	term := BuildTerm(q)
	hits, ok := p.cache.Get(p.Name(), term)
	if !ok {
		resp, err := p.svc.Cse.List().Context(ctx).Cx(p.cx).Q(term).Num(googleHitCount).Do()
		if err != nil {
			return nil, fmt.Errorf("google search failed: %w", err)
		}
		hits = make([]RawHit, 0, len(resp.Items))
		for _, item := range resp.Items {
			hits = append(hits, RawHit{
				Title:   item.Title,
				Snippet: item.Snippet,
				Link:    item.Link,
			})
		}
		p.cache.Add(p.Name(), term, hits)
	}
	return CandidatesFromHits(hits, q, p.Name(), p.Kind()), nil
}
