// Package pipeline provides the high-level orchestration for one obituary
// search: normalize the query, fan out to every configured provider, merge
// duplicate hits, drop excluded candidates, then score and rank what remains.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/dedupe"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/exclusions"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/providers"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/scoring"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// Options holds the collaborators and tunables for a Searcher.
type Options struct {
	// Providers is the list of search backends, queried concurrently in
	// every run. Result order follows this list.
	Providers []providers.Provider
	// Scorer evaluates candidates against the normalized query.
	Scorer *scoring.Scorer
	// Exclusions is the suppression store. Nil disables exclusion
	// filtering entirely.
	Exclusions exclusions.Store
	// MaxResults truncates the ranked output. Zero or negative means no
	// truncation.
	MaxResults int
	// Verbose enables per-step progress logging.
	Verbose bool
}

// Searcher runs the full search pipeline. Construct one per configuration;
// Run is safe for concurrent use.
type Searcher struct {
	providers  []providers.Provider
	scorer     *scoring.Scorer
	store      exclusions.Store
	maxResults int
	verbose    bool
}

// NewSearcher assembles a pipeline from its collaborators.
func NewSearcher(opts Options) *Searcher {
	return &Searcher{
		providers:  opts.Providers,
		scorer:     opts.Scorer,
		store:      opts.Exclusions,
		maxResults: opts.MaxResults,
		verbose:    opts.Verbose,
	}
}

// Run executes one search. Input validation is the only error: provider and
// exclusion-store failures are logged and degraded so a broken collaborator
// can never fail the search. The search key in the result is deterministic
// for the query even when every backend fails.
func (s *Searcher) Run(ctx context.Context, q types.ObitQuery) (*types.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	nq := normalize.Query(q)
	if s.verbose {
		log.Printf("[pipeline] search %s: last=%q first variants=%v city=%q state=%q",
			nq.SearchKey, nq.NormalizedLastName, nq.FirstNameVariants, nq.NormalizedCity, nq.NormalizedState)
	}

	candidates := s.fanOut(ctx, nq)
	merged := dedupe.Merge(candidates)
	if s.verbose {
		log.Printf("[pipeline] %d candidates, %d after merge", len(candidates), len(merged))
	}

	kept := exclusions.Filter(merged, s.loadExclusions(ctx, nq.SearchKey))

	ranked := s.scorer.Rank(kept, nq)
	if s.maxResults > 0 && len(ranked) > s.maxResults {
		ranked = ranked[:s.maxResults]
	}

	return &types.SearchResult{
		SearchKey: nq.SearchKey,
		Results:   ranked,
	}, nil
}

// fanOut queries every provider concurrently and flattens the results in
// provider order. Workers write to disjoint slots, so the join needs no
// locking. A provider failure is logged at the adapter boundary and
// contributes zero candidates; it never aborts the sibling calls.
func (s *Searcher) fanOut(ctx context.Context, nq types.NormalizedQuery) []types.Candidate {
	perProvider := make([][]types.Candidate, len(s.providers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		g.Go(func() error {
			found, err := p.Search(gCtx, nq)
			if err != nil {
				log.Printf("[provider:%s] search failed: %v", p.Name(), err)
				return nil
			}
			if s.verbose {
				log.Printf("[provider:%s] %d candidates", p.Name(), len(found))
			}
			perProvider[i] = found
			return nil
		})
	}
	// Workers swallow their own errors, so the join always succeeds.
	_ = g.Wait()

	var flat []types.Candidate
	for _, found := range perProvider {
		flat = append(flat, found...)
	}
	return flat
}

// loadExclusions reads the suppression snapshot for the search key. A nil
// store or a read failure degrades to an empty snapshot.
func (s *Searcher) loadExclusions(ctx context.Context, searchKey string) exclusions.Snapshot {
	if s.store == nil {
		return exclusions.Snapshot{}
	}
	snap, err := exclusions.Load(ctx, s.store, searchKey)
	if err != nil {
		log.Printf("[pipeline] failed to load exclusions for %s: %v", searchKey, err)
		return exclusions.Snapshot{}
	}
	if s.verbose && snap.Len() > 0 {
		log.Printf("[pipeline] %d exclusion entries active for %s", snap.Len(), searchKey)
	}
	return snap
}
