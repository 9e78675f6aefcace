// Package scoring - rank.go orders scored candidates and assigns ranks.
package scoring

import (
	"sort"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// RankCandidates stably sorts pre-scored candidates by descending score and
// assigns 1-based ranks. Equal scores keep their input order.
func RankCandidates(candidates []types.Candidate) []types.RankedResult {
	results := make([]types.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, types.RankedResult{Candidate: c, FinalScore: c.Score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Rank scores every candidate against the query, then sorts and ranks them.
// Input candidates are left untouched.
func (s *Scorer) Rank(candidates []types.Candidate, q types.NormalizedQuery) []types.RankedResult {
	scored := make([]types.Candidate, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		scored[i].Score, scored[i].Reasons = s.Score(scored[i], q)
	}
	return RankCandidates(scored)
}
