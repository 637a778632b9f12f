package genetic

import (
	"errors"
	"testing"
)

func scored(scores ...float64) []Candidate {
	pop := make([]Candidate, len(scores))
	for i, s := range scores {
		pop[i] = Candidate{Path: Individual{North}, Score: s}
	}
	return pop
}

// TestTournament_WholePopulation verifies k >= population size always returns the best
func TestTournament_WholePopulation(t *testing.T) {
	pop := scored(0.2, 0.9, 0.1, 0.9, 0.5)

	for _, k := range []int{5, 6, 100} {
		ts := TournamentSelector{Size: k}
		for seed := uint64(1); seed <= 30; seed++ {
			if got := ts.Select(pop, Maximize, seeded(seed)); got != 1 {
				t.Fatalf("k=%d seed=%d: expected index 1 (first best), got %d", k, seed, got)
			}
		}
	}

	if got := (TournamentSelector{Size: 5}).Select(pop, Minimize, seeded(1)); got != 2 {
		t.Errorf("Expected index 2 under Minimize, got %d", got)
	}
}

// TestTournament_SingleDraw verifies k=1 consumes exactly one draw
func TestTournament_SingleDraw(t *testing.T) {
	pop := scored(1, 2, 3, 4, 5, 6, 7, 8)
	ts := TournamentSelector{Size: 1}
	rng, ref := seeded(9), seeded(9)

	for range 100 {
		if got, want := ts.Select(pop, Maximize, rng), ref.IntN(len(pop)); got != want {
			t.Fatalf("Expected draw %d, got %d", want, got)
		}
	}
}

// TestTournament_Pressure verifies larger tournaments favour better members
func TestTournament_Pressure(t *testing.T) {
	scores := make([]float64, 50)
	for i := range scores {
		scores[i] = float64(i)
	}
	pop := scored(scores...)

	mean := func(sel Selector) float64 {
		rng := seeded(31)
		total := 0.0
		for range 4000 {
			total += pop[sel.Select(pop, Maximize, rng)].Score
		}
		return total / 4000
	}

	uniform := mean(UniformSelector{})
	tournament := mean(TournamentSelector{Size: 5})
	if tournament <= uniform+10 {
		t.Errorf("Expected tournament mean well above uniform mean, got %.2f vs %.2f", tournament, uniform)
	}
}

// TestUniform_Coverage verifies every index is reachable and in range
func TestUniform_Coverage(t *testing.T) {
	pop := scored(0, 0, 0, 0, 0, 0)
	seen := make([]int, len(pop))
	rng := seeded(2)
	for range 600 {
		i := UniformSelector{}.Select(pop, Maximize, rng)
		if i < 0 || i >= len(pop) {
			t.Fatalf("Index out of range: %d", i)
		}
		seen[i]++
	}
	for i, n := range seen {
		if n == 0 {
			t.Errorf("Index %d never selected", i)
		}
	}
}

// TestNewSelector verifies policy resolution and rejection
func TestNewSelector(t *testing.T) {
	s, err := NewSelector(SelectTournament, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ts, ok := s.(TournamentSelector); !ok || ts.Size != 3 {
		t.Errorf("Expected TournamentSelector{3}, got %#v", s)
	}

	if _, err := NewSelector(SelectUniform, 0); err != nil {
		t.Errorf("Uniform selection ignores tournament size, got %v", err)
	}
	if _, err := NewSelector(SelectTournament, 0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for k=0, got %v", err)
	}
	if _, err := ParseSelectionPolicy("roulette"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for unknown policy, got %v", err)
	}
}
