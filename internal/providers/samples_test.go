package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

func TestNewSamples_EmbeddedFixtures(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{"google", types.ProviderTypeGeneral},
		{"bing", types.ProviderTypeGeneral},
		{"legacy", types.ProviderTypeNative},
	}
	for _, tt := range tests {
		p, err := NewSamples(tt.name, tt.kind, "")
		require.NoError(t, err, "backend: %s", tt.name)
		assert.Equal(t, tt.name, p.Name())
		assert.Equal(t, tt.kind, p.Kind())
		assert.NotEmpty(t, p.hits, "backend: %s", tt.name)
	}
}

func TestSampleSearch_ReplaysThroughExtraction(t *testing.T) {
	p, err := NewSamples("google", types.ProviderTypeGeneral, "")
	require.NoError(t, err)

	candidates, err := p.Search(context.Background(), hitQuery)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	first := candidates[0]
	assert.Equal(t, "google", first.Source)
	assert.Equal(t, types.ProviderTypeGeneral, first.ProviderType)
	assert.Equal(t, "William", first.FirstName)
	assert.Equal(t, "Smith", first.LastName)
	assert.Equal(t, "Columbus", first.City)
	assert.Equal(t, "OH", first.State)
	assert.Equal(t, "2024-06-08", first.DOD)
	assert.Equal(t, 81, first.AgeYears)
	assert.Equal(t, "2024-06-12", first.DateVisitation)
	assert.Equal(t, "2024-06-13", first.DateFuneral)

	index := candidates[2]
	assert.Empty(t, index.LastName)
	assert.Equal(t, "Obituaries in Columbus, OH | The Columbus Dispatch", index.FullName)
}

func TestNewSamples_DirOverride(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"source": "google",
		"hits": [
			{
				"title": "Jane Doe Obituary - Akron, OH",
				"snippet": "Jane Doe, 70, of Akron, Ohio, died January 2, 2024.",
				"link": "https://example.com/jane-doe"
			}
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "google.json"), []byte(doc), 0o644))

	p, err := NewSamples("google", types.ProviderTypeGeneral, dir)
	require.NoError(t, err)

	candidates, err := p.Search(context.Background(), hitQuery)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Jane", candidates[0].FirstName)
	assert.Equal(t, "Doe", candidates[0].LastName)
	assert.Equal(t, "Akron", candidates[0].City)
	assert.Equal(t, "2024-01-02", candidates[0].DOD)
	assert.Equal(t, 70, candidates[0].AgeYears)
}

func TestNewSamples_InvalidOverrideRejected(t *testing.T) {
	dir := t.TempDir()
	doc := `{"hits": [{"title": "No Source Here", "link": "https://example.com"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "google.json"), []byte(doc), 0o644))

	_, err := NewSamples("google", types.ProviderTypeGeneral, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sample data for google")
}

func TestNewSamples_MissingOverrideFile(t *testing.T) {
	_, err := NewSamples("google", types.ProviderTypeGeneral, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sample file")
}

func TestNewSamples_UnknownBackend(t *testing.T) {
	_, err := NewSamples("altavista", types.ProviderTypeGeneral, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedded sample data for altavista")
}
