// Package providers implements the search backend adapters. Each adapter
// builds one backend query per search, issues one external call, and turns
// the raw hits into candidates. A backend that is enabled but missing its
// credential degrades to embedded sample hits so the pipeline stays usable
// offline.
package providers

import (
	"context"
	"fmt"
	"log"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// Provider is an abstraction over obituary search backends
type Provider interface {
	// Name returns the backend identifier ("google", "bing", "legacy")
	Name() string
	// Kind reports how hits are produced: general hits go through heuristic
	// extraction, native hits carry structured obituary fields
	Kind() string
	// Search issues exactly one backend call for the query
	Search(ctx context.Context, q types.NormalizedQuery) ([]types.Candidate, error)
}

// FromConfig assembles the provider list named by cfg.Providers, in order.
// A backend with no credential is swapped for its sample-backed stand-in
// rather than dropped, so every configured name yields a working adapter.
func FromConfig(ctx context.Context, cfg config.Config) ([]Provider, error) {
	cache := NewHitCache(DefaultHitCacheSize)
	providers := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := buildProvider(ctx, name, cfg, cache)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func buildProvider(ctx context.Context, name string, cfg config.Config, cache *HitCache) (Provider, error) {
	switch name {
	case config.ProviderGoogle:
		if cfg.GoogleAPIKey == "" || cfg.GoogleCSEID == "" {
			log.Printf("[PROVIDER] google: GOOGLE_API_KEY/GOOGLE_CSE_ID not set, using embedded sample hits")
			return NewSamples(config.ProviderGoogle, types.ProviderTypeGeneral, cfg.SampleDir)
		}
		return NewGoogle(ctx, cfg.GoogleAPIKey, cfg.GoogleCSEID, cache)
	case config.ProviderBing:
		if cfg.BingAPIKey == "" {
			log.Printf("[PROVIDER] bing: BING_API_KEY not set, using embedded sample hits")
			return NewSamples(config.ProviderBing, types.ProviderTypeGeneral, cfg.SampleDir)
		}
		return NewBing(cfg.BingAPIKey, cache), nil
	case config.ProviderLegacy:
		if cfg.LegacyBaseURL == "" {
			log.Printf("[PROVIDER] legacy: LEGACY_BASE_URL not set, using embedded sample hits")
			return NewSamples(config.ProviderLegacy, types.ProviderTypeNative, cfg.SampleDir)
		}
		return NewLegacy(cfg.LegacyBaseURL, cfg.UseBrowser), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
