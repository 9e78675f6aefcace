package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/providers"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/scoring"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// fakeProvider returns canned candidates or a canned error.
type fakeProvider struct {
	name       string
	kind       string
	candidates []types.Candidate
	err        error
	calls      int
	gotQuery   types.NormalizedQuery
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Kind() string { return f.kind }

func (f *fakeProvider) Search(_ context.Context, q types.NormalizedQuery) ([]types.Candidate, error) {
	f.calls++
	f.gotQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

// fakeStore serves fixed exclusion sets and records the requested key.
type fakeStore struct {
	fingerprints []string
	urls         []string
	err          error
	gotKey       string
}

func (f *fakeStore) ExcludedFingerprints(_ context.Context, searchKey string) ([]string, error) {
	f.gotKey = searchKey
	if f.err != nil {
		return nil, f.err
	}
	return f.fingerprints, nil
}

func (f *fakeStore) ExcludedURLs(_ context.Context, searchKey string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

func newTestSearcher(opts Options) *Searcher {
	if opts.Scorer == nil {
		opts.Scorer = scoring.NewScorer(scoring.DefaultWeights(), 6)
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = config.DefaultConfig().MaxResults
	}
	return NewSearcher(opts)
}

var billSmithQuery = types.ObitQuery{
	FirstName: "Bill",
	LastName:  "Smith",
	City:      "Columbus",
	State:     "OH",
	AgeApprox: 80,
}

// candidateC1 is "William Smith, Columbus, OH, 81": every geographic and age
// axis matches, the first name is a known variant of Bill but not a literal
// or diminutive match.
func candidateC1() types.Candidate {
	return types.Candidate{
		ID:           "c1",
		FirstName:    "William",
		LastName:     "Smith",
		City:         "Columbus",
		State:        "OH",
		AgeYears:     81,
		Source:       "google",
		URL:          "https://example.com/william-smith",
		Fingerprint:  "fp-c1",
		ProviderType: types.ProviderTypeGeneral,
	}
}

// candidateC2 is "Bill Smith, Dayton, OH, 80": literal first-name and
// nickname credit, but a same-state city mismatch.
func candidateC2() types.Candidate {
	return types.Candidate{
		ID:           "c2",
		FirstName:    "Bill",
		LastName:     "Smith",
		City:         "Dayton",
		State:        "OH",
		AgeYears:     80,
		Source:       "google",
		URL:          "https://example.com/bill-smith",
		Fingerprint:  "fp-c2",
		ProviderType: types.ProviderTypeGeneral,
	}
}

func TestRun_RanksCandidates(t *testing.T) {
	google := &fakeProvider{
		name:       "google",
		kind:       types.ProviderTypeGeneral,
		candidates: []types.Candidate{candidateC1(), candidateC2()},
	}
	s := newTestSearcher(Options{Providers: []providers.Provider{google}})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.Equal(t, normalize.Query(billSmithQuery).SearchKey, result.SearchKey)

	first := result.Results[0]
	assert.Equal(t, "c1", first.ID)
	assert.Equal(t, 85, first.FinalScore)
	assert.Equal(t, 1, first.Rank)

	second := result.Results[1]
	assert.Equal(t, "c2", second.ID)
	assert.Equal(t, 71, second.FinalScore)
	assert.Equal(t, 2, second.Rank)
}

func TestRun_GlobalExclusionSuppressesCandidate(t *testing.T) {
	google := &fakeProvider{
		name:       "google",
		kind:       types.ProviderTypeGeneral,
		candidates: []types.Candidate{candidateC1(), candidateC2()},
	}
	store := &fakeStore{fingerprints: []string{"fp-c2"}}
	s := newTestSearcher(Options{
		Providers:  []providers.Provider{google},
		Exclusions: store,
	})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "c1", result.Results[0].ID)
	assert.Equal(t, 1, result.Results[0].Rank)
	assert.Equal(t, result.SearchKey, store.gotKey)
}

func TestRun_AllProvidersFailing(t *testing.T) {
	failing := func(name string) *fakeProvider {
		return &fakeProvider{name: name, kind: types.ProviderTypeGeneral, err: errors.New("connection refused")}
	}
	s := newTestSearcher(Options{
		Providers: []providers.Provider{failing("google"), failing("bing"), failing("legacy")},
	})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, normalize.Query(billSmithQuery).SearchKey, result.SearchKey)
}

func TestRun_ProviderFailureIsolation(t *testing.T) {
	broken := &fakeProvider{name: "google", kind: types.ProviderTypeGeneral, err: errors.New("HTTP status 503")}
	healthy := &fakeProvider{
		name:       "bing",
		kind:       types.ProviderTypeGeneral,
		candidates: []types.Candidate{candidateC1()},
	}
	s := newTestSearcher(Options{Providers: []providers.Provider{broken, healthy}})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "c1", result.Results[0].ID)
	assert.Equal(t, 1, healthy.calls, "a sibling failure must not abort the healthy provider")
}

func TestRun_FlattenOrderFollowsProviderOrder(t *testing.T) {
	// Field-less candidates score zero, so ranking falls back to input
	// order and exposes the flatten order.
	blank := func(id string) types.Candidate {
		return types.Candidate{ID: id, Fingerprint: "fp-" + id, URL: "https://example.com/" + id}
	}
	first := &fakeProvider{name: "google", kind: types.ProviderTypeGeneral, candidates: []types.Candidate{blank("a"), blank("b")}}
	second := &fakeProvider{name: "legacy", kind: types.ProviderTypeNative, candidates: []types.Candidate{blank("c")}}
	s := newTestSearcher(Options{Providers: []providers.Provider{first, second}})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, result.Results[i].ID)
		assert.Equal(t, i+1, result.Results[i].Rank)
	}
}

func TestRun_MergesAcrossProviders(t *testing.T) {
	general := candidateC1()
	native := types.Candidate{
		ID:           "native",
		FullName:     "William Arthur Smith",
		FirstName:    "William",
		MiddleName:   "Arthur",
		LastName:     "Smith",
		City:         "Columbus",
		State:        "OH",
		DOD:          "2024-06-08",
		Source:       "legacy",
		URL:          "https://legacy.example.com/william-arthur-smith",
		Fingerprint:  general.Fingerprint,
		ProviderType: types.ProviderTypeNative,
	}
	google := &fakeProvider{name: "google", kind: types.ProviderTypeGeneral, candidates: []types.Candidate{general}}
	legacy := &fakeProvider{name: "legacy", kind: types.ProviderTypeNative, candidates: []types.Candidate{native}}
	s := newTestSearcher(Options{Providers: []providers.Provider{google, legacy}})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	merged := result.Results[0]
	assert.Equal(t, "William Arthur Smith", merged.FullName, "native fields replace the general base")
	assert.Equal(t, "2024-06-08", merged.DOD)
	assert.Equal(t, general.URL, merged.URL, "the base record keeps its own URL")
	assert.Equal(t, []string{native.URL}, merged.AlsoFoundAt)
}

func TestRun_MaxResultsTruncation(t *testing.T) {
	var many []types.Candidate
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("c%d", i)
		many = append(many, types.Candidate{ID: id, Fingerprint: "fp-" + id, URL: "https://example.com/" + id})
	}
	google := &fakeProvider{name: "google", kind: types.ProviderTypeGeneral, candidates: many}
	s := newTestSearcher(Options{Providers: []providers.Provider{google}, MaxResults: 3})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.Equal(t, 3, result.Results[2].Rank)
}

func TestRun_ExclusionStoreFailureFailsOpen(t *testing.T) {
	google := &fakeProvider{
		name:       "google",
		kind:       types.ProviderTypeGeneral,
		candidates: []types.Candidate{candidateC1()},
	}
	store := &fakeStore{err: errors.New("connection reset")}
	s := newTestSearcher(Options{
		Providers:  []providers.Provider{google},
		Exclusions: store,
	})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	assert.Len(t, result.Results, 1, "a broken exclusion store must not fail the search")
}

func TestRun_URLExclusion(t *testing.T) {
	google := &fakeProvider{
		name:       "google",
		kind:       types.ProviderTypeGeneral,
		candidates: []types.Candidate{candidateC1(), candidateC2()},
	}
	store := &fakeStore{urls: []string{"HTTPS://EXAMPLE.COM/bill-smith?utm_source=x"}}
	s := newTestSearcher(Options{
		Providers:  []providers.Provider{google},
		Exclusions: store,
	})

	result, err := s.Run(context.Background(), billSmithQuery)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "c1", result.Results[0].ID)
}

func TestRun_InvalidQueryRejected(t *testing.T) {
	google := &fakeProvider{name: "google", kind: types.ProviderTypeGeneral}
	s := newTestSearcher(Options{Providers: []providers.Provider{google}})

	_, err := s.Run(context.Background(), types.ObitQuery{FirstName: "Bill"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
	assert.Equal(t, 0, google.calls, "no provider may run before validation passes")
}

func TestRun_ProvidersReceiveNormalizedQuery(t *testing.T) {
	google := &fakeProvider{name: "google", kind: types.ProviderTypeGeneral}
	s := newTestSearcher(Options{Providers: []providers.Provider{google}})

	raw := types.ObitQuery{FirstName: "bill", LastName: "SMITH", City: "columbus", State: "ohio", AgeApprox: 80}
	result, err := s.Run(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Smith", google.gotQuery.NormalizedLastName)
	assert.Equal(t, "Bill", google.gotQuery.NormalizedFirstName)
	assert.Equal(t, "Columbus", google.gotQuery.NormalizedCity)
	assert.Equal(t, "OH", google.gotQuery.NormalizedState)
	assert.Equal(t, normalize.Query(billSmithQuery).SearchKey, result.SearchKey,
		"casing differences must not change the search key")
}
