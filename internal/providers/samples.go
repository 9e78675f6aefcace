// Package providers - samples.go replays canned hits for backends that have
// no credential configured.
package providers

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/schemas"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

//go:embed sampledata/*.json
var sampleData embed.FS

// SampleProvider stands in for one unconfigured backend so offline runs still
// exercise the full pipeline. Hits are static; they go through the same
// extraction path as live results.
type SampleProvider struct {
	name string
	kind string
	hits []RawHit
}

// sampleDoc is the on-disk shape of a sample fixture.
type sampleDoc struct {
	Source string   `json:"source"`
	Hits   []RawHit `json:"hits"`
}

// NewSamples loads the canned hits for the named backend. Fixtures ship
// embedded under sampledata/; a non-empty dir overrides them with files on
// disk. Either way the content is validated against the sample-hits schema
// before use, since override files are user-supplied.
func NewSamples(name, kind, dir string) (*SampleProvider, error) {
	raw, err := readSampleFile(name, dir)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateSampleHits(raw); err != nil {
		return nil, fmt.Errorf("invalid sample data for %s: %w", name, err)
	}
	var doc sampleDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sample data for %s: %w", name, err)
	}
	return &SampleProvider{
		name: name,
		kind: kind,
		hits: doc.Hits,
	}, nil
}

func readSampleFile(name, dir string) ([]byte, error) {
	if dir != "" {
		path := filepath.Join(dir, name+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sample file %s: %w", path, err)
		}
		return raw, nil
	}
	raw, err := sampleData.ReadFile("sampledata/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("no embedded sample data for %s: %w", name, err)
	}
	return raw, nil
}

// Name returns the backend identifier this provider stands in for.
func (p *SampleProvider) Name() string { return p.name }

// Kind reports the kind of the backend this provider stands in for.
func (p *SampleProvider) Kind() string { return p.kind }

// Search replays the canned hits through the normal extraction path.
func (p *SampleProvider) Search(_ context.Context, q types.NormalizedQuery) ([]types.Candidate, error) {
	return CandidatesFromHits(p.hits, q, p.name, p.kind), nil
}
