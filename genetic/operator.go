package genetic

import (
	"math/rand/v2"

	"github.com/lixenwraith/mazega/maze"
)

// RandomIndividual draws length moves uniformly
func RandomIndividual(length int, rng *rand.Rand) Individual {
	ind := make(Individual, length)
	for i := range ind {
		ind[i] = Move(rng.IntN(moveCount))
	}
	return ind
}

// InitializePopulation draws size individuals of m.Area() moves each.
// Nothing is filtered; invalid walks are left for fitness to punish.
func InitializePopulation(m *maze.Maze, size int, rng *rand.Rand) []Individual {
	pop := make([]Individual, size)
	for i := range pop {
		pop[i] = RandomIndividual(m.Area(), rng)
	}
	return pop
}

// Crossover joins p1's prefix and p2's suffix at a uniform point in [0, len)
func Crossover(p1, p2 Individual, rng *rand.Rand) Individual {
	return CrossoverAt(p1, p2, rng.IntN(len(p1)))
}

// CrossoverAt returns a fresh child p1[:point] ++ p2[point:]
func CrossoverAt(p1, p2 Individual, point int) Individual {
	child := make(Individual, len(p1))
	copy(child, p1[:point])
	copy(child[point:], p2[point:])
	return child
}

// Mutate resets each gene of child to a random move with probability rate.
// Only call it on a child that is not yet in a population.
func Mutate(child Individual, rate float64, rng *rand.Rand) {
	for i := range child {
		if rng.Float64() < rate {
			child[i] = Move(rng.IntN(moveCount))
		}
	}
}
