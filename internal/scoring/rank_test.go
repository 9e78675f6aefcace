package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

func TestRankCandidates_DescendingWithOneBasedRanks(t *testing.T) {
	in := []types.Candidate{
		{ID: "a", Score: 50},
		{ID: "b", Score: 70},
		{ID: "c", Score: 10},
	}

	out := RankCandidates(in)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].Rank, out[1].Rank, out[2].Rank})
	assert.Equal(t, 70, out[0].FinalScore)
}

func TestRankCandidates_StableForEqualScores(t *testing.T) {
	in := []types.Candidate{
		{ID: "first", Score: 50},
		{ID: "second", Score: 50},
		{ID: "third", Score: 50},
	}

	out := RankCandidates(in)

	assert.Equal(t, "first", out[0].ID)
	assert.Equal(t, "second", out[1].ID)
	assert.Equal(t, "third", out[2].ID)
}

func TestRankCandidates_PreOrderedInputKeepsPositions(t *testing.T) {
	in := []types.Candidate{
		{ID: "a", Score: 90},
		{ID: "b", Score: 80},
		{ID: "c", Score: 70},
	}

	out := RankCandidates(in)

	for i, r := range out {
		assert.Equal(t, in[i].ID, r.ID)
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRankCandidates_Empty(t *testing.T) {
	assert.Empty(t, RankCandidates(nil))
}

func TestRank_ScoresThenOrders(t *testing.T) {
	q := normalize.Query(types.ObitQuery{
		FirstName: "Bill",
		LastName:  "Smith",
		City:      "Columbus",
		State:     "OH",
		AgeApprox: 80,
	})
	s := NewScorer(DefaultWeights(), 6)

	weaker := types.Candidate{ID: "dayton", FirstName: "Bill", LastName: "Smith", City: "Dayton", State: "OH", AgeYears: 80}
	stronger := types.Candidate{ID: "columbus", FirstName: "William", LastName: "Smith", City: "Columbus", State: "OH", AgeYears: 81}

	out := s.Rank([]types.Candidate{weaker, stronger}, q)

	require.Len(t, out, 2)
	assert.Equal(t, "columbus", out[0].ID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 85, out[0].FinalScore)
	assert.Equal(t, "dayton", out[1].ID)
	assert.Equal(t, 2, out[1].Rank)
	assert.Equal(t, 71, out[1].FinalScore)
	assert.NotEmpty(t, out[0].Reasons)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	q := normalize.Query(types.ObitQuery{FirstName: "Jane", LastName: "Smith"})
	s := NewScorer(DefaultWeights(), 6)

	in := []types.Candidate{{ID: "a", LastName: "Smith"}}
	_ = s.Rank(in, q)

	assert.Equal(t, 0, in[0].Score)
	assert.Empty(t, in[0].Reasons)
}
