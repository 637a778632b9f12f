package genetic

import (
	"fmt"
	"math/rand/v2"
)

// Selector picks one parent from a scored population and returns its index.
// It is called twice per child; picking the same index twice is allowed.
type Selector interface {
	Select(pop []Candidate, ranking Ranking, rng *rand.Rand) int
}

// SelectionPolicy selects a built-in selector
type SelectionPolicy uint8

const (
	// SelectUniform ignores scores
	SelectUniform SelectionPolicy = iota
	// SelectTournament keeps the best of k random draws
	SelectTournament
)

func (p SelectionPolicy) String() string {
	switch p {
	case SelectUniform:
		return "uniform"
	case SelectTournament:
		return "tournament"
	default:
		return fmt.Sprintf("SelectionPolicy(%d)", uint8(p))
	}
}

// ParseSelectionPolicy accepts "uniform" or "tournament"
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch s {
	case "uniform":
		return SelectUniform, nil
	case "tournament":
		return SelectTournament, nil
	}
	return 0, configErrorf("selection", "unknown selection policy %q", s)
}

// NewSelector resolves a policy to its selector
func NewSelector(policy SelectionPolicy, tournamentSize int) (Selector, error) {
	switch policy {
	case SelectUniform:
		return UniformSelector{}, nil
	case SelectTournament:
		if tournamentSize <= 0 {
			return nil, configErrorf("tournament_size", "must be > 0 (got %d)", tournamentSize)
		}
		return TournamentSelector{Size: tournamentSize}, nil
	}
	return nil, configErrorf("selection", "unknown selection policy %d", policy)
}

// UniformSelector picks any member with equal probability
type UniformSelector struct{}

func (UniformSelector) Select(pop []Candidate, _ Ranking, rng *rand.Rand) int {
	return rng.IntN(len(pop))
}

// TournamentSelector draws Size members with replacement and keeps the best,
// the earliest draw winning ties. A tournament at least as large as the
// population is the whole population and ignores rng.
type TournamentSelector struct {
	Size int
}

func (ts TournamentSelector) Select(pop []Candidate, ranking Ranking, rng *rand.Rand) int {
	if ts.Size >= len(pop) {
		return bestIndex(pop, ranking)
	}

	best := rng.IntN(len(pop))
	for i := 1; i < ts.Size; i++ {
		cand := rng.IntN(len(pop))
		if ranking.Better(pop[cand].Score, pop[best].Score) {
			best = cand
		}
	}
	return best
}
