package normalize

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed nicknames.yaml
var nicknamesYAML []byte

// nicknameTable holds both directions of the nickname relation, keyed by
// lower-cased name. Built once at package init from the embedded table and
// never mutated afterwards.
type nicknameTable struct {
	// formals maps a formal name to its diminutives.
	formals map[string][]string
	// diminutives maps a diminutive to every formal name it can stand for.
	diminutives map[string][]string
}

var nicknames = mustLoadNicknames(nicknamesYAML)

func mustLoadNicknames(raw []byte) *nicknameTable {
	t, err := loadNicknames(raw)
	if err != nil {
		panic(fmt.Sprintf("normalize: bad embedded nickname table: %v", err))
	}
	return t
}

func loadNicknames(raw []byte) (*nicknameTable, error) {
	var parsed map[string][]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse nickname table: %w", err)
	}

	t := &nicknameTable{
		formals:     make(map[string][]string, len(parsed)),
		diminutives: make(map[string][]string),
	}
	for formal, dims := range parsed {
		formal = strings.ToLower(strings.TrimSpace(formal))
		if formal == "" {
			continue
		}
		for _, d := range dims {
			d = strings.ToLower(strings.TrimSpace(d))
			if d == "" {
				continue
			}
			t.formals[formal] = append(t.formals[formal], d)
			t.diminutives[d] = append(t.diminutives[d], formal)
		}
	}
	return t, nil
}

// IsDiminutive reports whether name is a known diminutive form (e.g. "Bill").
// Formal names that are never used as diminutives (e.g. "William") return
// false.
func IsDiminutive(name string) bool {
	_, ok := nicknames.diminutives[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Variants returns the closure of known name variants for name: the name
// itself first, then formal expansions and sibling diminutives, title-cased
// and deduplicated. An unknown name yields just itself.
func Variants(name string) []string {
	cleaned := Name(name)
	if cleaned == "" {
		return nil
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	add := func(n string) {
		n = Name(n)
		if n == "" {
			return
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}

	add(cleaned)
	lower := strings.ToLower(cleaned)

	// Formal side: pull in its diminutives.
	for _, d := range nicknames.formals[lower] {
		add(d)
	}
	// Diminutive side: pull in each formal and that formal's other diminutives.
	for _, f := range nicknames.diminutives[lower] {
		add(f)
		for _, sibling := range nicknames.formals[f] {
			add(sibling)
		}
	}
	return out
}
