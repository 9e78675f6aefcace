// Package scoring assigns additive match scores to candidates and ranks them.
// Every triggered criterion contributes independently and is recorded as a
// human-readable reason, so a final score is always explainable.
package scoring

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// Default weights for the scoring criteria. Mismatch weights are negative. A
// criterion only fires when both the query and the candidate have a known
// value; missing data is neutral, never a penalty.
const (
	defaultLastNameMatch         = 35
	defaultLastNameMismatch      = -35
	defaultFirstNameMatch        = 10
	defaultFirstNameMismatch     = -10
	defaultNicknameMatch         = 6
	defaultMiddleInitialMatch    = 3
	defaultCityMatch             = 20
	defaultCityMismatchSameState = -10
	defaultStateMatch            = 15
	defaultAgeInWindow           = 15
	defaultAgeOutOfWindow        = -15
)

// Weights are the per-criterion score contributions. Zero-value fields mean
// "no contribution", so callers overriding weights should start from
// DefaultWeights.
type Weights struct {
	LastNameMatch         int `json:"last_name_match"`
	LastNameMismatch      int `json:"last_name_mismatch"`
	FirstNameMatch        int `json:"first_name_match"`
	FirstNameMismatch     int `json:"first_name_mismatch"`
	NicknameMatch         int `json:"nickname_match"`
	MiddleInitialMatch    int `json:"middle_initial_match"`
	CityMatch             int `json:"city_match"`
	CityMismatchSameState int `json:"city_mismatch_same_state"`
	StateMatch            int `json:"state_match"`
	AgeInWindow           int `json:"age_in_window"`
	AgeOutOfWindow        int `json:"age_out_of_window"`
}

// DefaultWeights returns the standard criterion weights.
func DefaultWeights() Weights {
	return Weights{
		LastNameMatch:         defaultLastNameMatch,
		LastNameMismatch:      defaultLastNameMismatch,
		FirstNameMatch:        defaultFirstNameMatch,
		FirstNameMismatch:     defaultFirstNameMismatch,
		NicknameMatch:         defaultNicknameMatch,
		MiddleInitialMatch:    defaultMiddleInitialMatch,
		CityMatch:             defaultCityMatch,
		CityMismatchSameState: defaultCityMismatchSameState,
		StateMatch:            defaultStateMatch,
		AgeInWindow:           defaultAgeInWindow,
		AgeOutOfWindow:        defaultAgeOutOfWindow,
	}
}

// Scorer evaluates candidates against a normalized query using a fixed set of
// weights and an age tolerance window.
type Scorer struct {
	weights        Weights
	ageWindowYears int
}

// NewScorer builds a scorer. ageWindowYears is the tolerance for the age
// criterion; the age axis fires as a mismatch outside it.
func NewScorer(weights Weights, ageWindowYears int) *Scorer {
	return &Scorer{weights: weights, ageWindowYears: ageWindowYears}
}

// Score computes the additive score for one candidate and the reasons behind
// it. The candidate is not mutated.
func (s *Scorer) Score(c types.Candidate, q types.NormalizedQuery) (int, []string) {
	total := 0
	var reasons []string
	add := func(points int, label string) {
		total += points
		reasons = append(reasons, fmt.Sprintf("%s (%+d)", label, points))
	}

	if c.LastName != "" && q.NormalizedLastName != "" {
		if strings.EqualFold(c.LastName, q.NormalizedLastName) {
			add(s.weights.LastNameMatch, "last name match")
		} else {
			add(s.weights.LastNameMismatch, "last name mismatch")
		}
	}

	// The primary first-name weight requires literal agreement. A known
	// variant of the query name is neutral so that query broadening never
	// inflates the primary match; anything else is a mismatch. The nickname
	// bonus is a separate, smaller axis.
	if c.FirstName != "" && q.NormalizedFirstName != "" {
		switch {
		case strings.EqualFold(c.FirstName, q.NormalizedFirstName):
			add(s.weights.FirstNameMatch, "first name match")
		case q.HasVariant(c.FirstName):
		default:
			add(s.weights.FirstNameMismatch, "first name mismatch")
		}
		if nicknameHit(c.FirstName, q) {
			add(s.weights.NicknameMatch, "nickname variant match")
		}
	}

	if c.MiddleName != "" && q.MiddleName != "" {
		if qm := normalize.Name(q.MiddleName); qm != "" && equalInitial(c.MiddleName, qm) {
			add(s.weights.MiddleInitialMatch, "middle initial match")
		}
	}

	cityKnown := c.City != "" && q.NormalizedCity != ""
	stateKnown := c.State != "" && q.NormalizedState != ""
	sameState := stateKnown && strings.EqualFold(c.State, q.NormalizedState)
	if cityKnown {
		if strings.EqualFold(c.City, q.NormalizedCity) {
			add(s.weights.CityMatch, "city match")
		} else if sameState {
			add(s.weights.CityMismatchSameState, "city mismatch in same state")
		}
	}
	if sameState {
		add(s.weights.StateMatch, "state match")
	}

	if c.AgeYears > 0 && q.AgeApprox > 0 {
		diff := c.AgeYears - q.AgeApprox
		if diff < 0 {
			diff = -diff
		}
		if diff <= s.ageWindowYears {
			add(s.weights.AgeInWindow, fmt.Sprintf("age within %d year window", s.ageWindowYears))
		} else {
			add(s.weights.AgeOutOfWindow, fmt.Sprintf("age outside %d year window", s.ageWindowYears))
		}
	}

	return total, reasons
}

// nicknameHit reports whether the extracted first name earns the nickname
// bonus: it must be a known variant of the query name and either a diminutive
// form or the nickname the query asked for explicitly.
func nicknameHit(extracted string, q types.NormalizedQuery) bool {
	if !q.HasVariant(extracted) {
		return false
	}
	if q.Nickname != "" && strings.EqualFold(extracted, q.Nickname) {
		return true
	}
	return normalize.IsDiminutive(extracted)
}

func equalInitial(a, b string) bool {
	ar := []rune(a)
	br := []rune(b)
	return len(ar) > 0 && len(br) > 0 && unicode.ToLower(ar[0]) == unicode.ToLower(br[0])
}
