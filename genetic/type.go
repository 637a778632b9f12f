package genetic

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/mazega/maze"
)

// --- Encoding ---

// Move is one gene of an individual
type Move uint8

const (
	North Move = iota
	South
	East
	West

	moveCount = 4
)

func (m Move) String() string {
	switch m {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return fmt.Sprintf("Move(%d)", uint8(m))
	}
}

// AxisConvention maps moves to grid deltas in (column,row) space
type AxisConvention uint8

const (
	// AxesCompass: North decreases the row, East increases the column
	AxesCompass AxisConvention = iota
	// AxesTransposed: the windowed solver's mapping, North increases the row
	AxesTransposed
)

var axisDeltas = [...][moveCount]maze.Point{
	AxesCompass:    {North: {X: 0, Y: -1}, South: {X: 0, Y: 1}, East: {X: 1, Y: 0}, West: {X: -1, Y: 0}},
	AxesTransposed: {North: {X: 0, Y: 1}, South: {X: 0, Y: -1}, East: {X: 1, Y: 0}, West: {X: -1, Y: 0}},
}

// Delta returns the grid step for m
func (a AxisConvention) Delta(m Move) maze.Point {
	return axisDeltas[a][m%moveCount]
}

// Valid reports whether a is a known convention
func (a AxisConvention) Valid() bool {
	return int(a) < len(axisDeltas)
}

func (a AxisConvention) String() string {
	switch a {
	case AxesCompass:
		return "compass"
	case AxesTransposed:
		return "transposed"
	default:
		return fmt.Sprintf("AxisConvention(%d)", uint8(a))
	}
}

// ParseAxisConvention accepts "compass" or "transposed"
func ParseAxisConvention(s string) (AxisConvention, error) {
	switch s {
	case "compass", "":
		return AxesCompass, nil
	case "transposed":
		return AxesTransposed, nil
	}
	return 0, configErrorf("axes", "unknown axis convention %q", s)
}

// Individual is a fixed-length move sequence
type Individual []Move

// Clone returns an independent copy
func (ind Individual) Clone() Individual {
	return slices.Clone(ind)
}

func (ind Individual) String() string {
	b := make([]byte, len(ind))
	for i, m := range ind {
		b[i] = m.String()[0]
	}
	return string(b)
}

// --- Scoring ---

// Ranking tells the engine which direction of score is better
type Ranking uint8

const (
	Maximize Ranking = iota
	Minimize
)

// Better reports whether a strictly beats b
func (r Ranking) Better(a, b float64) bool {
	if r == Minimize {
		return a < b
	}
	return a > b
}

// AtLeast reports whether a reaches target under the ranking
func (r Ranking) AtLeast(a, target float64) bool {
	if r == Minimize {
		return a <= target
	}
	return a >= target
}

func (r Ranking) String() string {
	if r == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Candidate is an individual with its evaluated score
type Candidate struct {
	Path  Individual
	Score float64
}

// Record is a candidate pinned to the generation it was observed in
type Record struct {
	Candidate
	Generation int
}

// bestIndex returns the best-scored position, the lowest index on ties
func bestIndex(pop []Candidate, ranking Ranking) int {
	best := 0
	for i := 1; i < len(pop); i++ {
		if ranking.Better(pop[i].Score, pop[best].Score) {
			best = i
		}
	}
	return best
}

// --- Run State ---

// State is the engine lifecycle position
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateStopped
	StateConverged
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateConverged:
		return "converged"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Terminal reports whether no further generations will run
func (s State) Terminal() bool {
	return s == StateStopped || s == StateConverged
}
