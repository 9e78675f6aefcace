package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

const bingFixture = `{
	"webPages": {
		"value": [
			{
				"name": "William Smith Obituary (1943 - 2024) - Columbus, OH",
				"url": "https://www.echovita.com/us/obituaries/oh/columbus/william-smith-1122334",
				"snippet": "William A. Smith, 81, of Columbus, Ohio, passed away on June 8, 2024."
			},
			{
				"name": "Bill Smith Obituary - Dayton Daily News",
				"url": "https://www.daytondailynews.com/obituaries/bill-smith-080624",
				"snippet": "Bill Smith, age 80, of Dayton, Ohio, died June 5, 2024."
			}
		]
	}
}`

func newBingTestProvider(t *testing.T, handler http.HandlerFunc) (*BingProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p := NewBing("test-key", NewHitCache(8))
	p.endpoint = server.URL
	p.client = server.Client()
	return p, server
}

func TestBingSearch_ExtractsCandidates(t *testing.T) {
	var gotKey, gotQ string
	p, _ := newBingTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotQ = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bingFixture))
	})

	candidates, err := p.Search(context.Background(), hitQuery)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotQ, `"Smith" obituary`)

	first := candidates[0]
	assert.Equal(t, "bing", first.Source)
	assert.Equal(t, types.ProviderTypeGeneral, first.ProviderType)
	assert.Equal(t, "William", first.FirstName)
	assert.Equal(t, "Smith", first.LastName)
	assert.Equal(t, "Columbus", first.City)
	assert.Equal(t, "OH", first.State)
	assert.Equal(t, "2024-06-08", first.DOD)
	assert.Equal(t, 81, first.AgeYears)

	second := candidates[1]
	assert.Equal(t, "Bill", second.FirstName)
	assert.Equal(t, "Dayton", second.City)
	assert.Equal(t, 80, second.AgeYears)
}

func TestBingSearch_SecondCallServedFromCache(t *testing.T) {
	calls := 0
	p, _ := newBingTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(bingFixture))
	})

	_, err := p.Search(context.Background(), hitQuery)
	require.NoError(t, err)
	_, err = p.Search(context.Background(), hitQuery)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestBingSearch_HTTPErrorPropagates(t *testing.T) {
	p, _ := newBingTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	})

	_, err := p.Search(context.Background(), hitQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bing returned HTTP 401")
}

func TestBingSearch_MalformedResponse(t *testing.T) {
	p, _ := newBingTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := p.Search(context.Background(), hitQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode bing response")
}

func TestBingSearch_EmptyAnswer(t *testing.T) {
	p, _ := newBingTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	candidates, err := p.Search(context.Background(), hitQuery)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestBingProvider_Identity(t *testing.T) {
	p := NewBing("key", NewHitCache(8))
	assert.Equal(t, "bing", p.Name())
	assert.Equal(t, types.ProviderTypeGeneral, p.Kind())
}
