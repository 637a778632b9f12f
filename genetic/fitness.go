package genetic

import (
	"fmt"
	"math"

	"github.com/lixenwraith/mazega/maze"
)

// Evaluator scores one individual against a maze.
// Implementations must be pure: the engine calls Evaluate concurrently.
type Evaluator interface {
	Evaluate(path Individual, m *maze.Maze) float64
	Ranking() Ranking
	// Optimum is the best score reachable on m; reaching it can end a run
	Optimum(m *maze.Maze) float64
}

// FitnessPolicy selects a built-in evaluator
type FitnessPolicy uint8

const (
	// FitnessDistance scores 1/(distance to end + 1), collisions score 0
	FitnessDistance FitnessPolicy = iota
	// FitnessSteps counts moves that changed position, blocked moves are skipped
	FitnessSteps
)

func (p FitnessPolicy) String() string {
	switch p {
	case FitnessDistance:
		return "distance"
	case FitnessSteps:
		return "steps"
	default:
		return fmt.Sprintf("FitnessPolicy(%d)", uint8(p))
	}
}

// ParseFitnessPolicy accepts "distance" or "steps"
func ParseFitnessPolicy(s string) (FitnessPolicy, error) {
	switch s {
	case "distance":
		return FitnessDistance, nil
	case "steps":
		return FitnessSteps, nil
	}
	return 0, configErrorf("fitness", "unknown fitness policy %q", s)
}

// NewEvaluator resolves a policy to its evaluator
func NewEvaluator(policy FitnessPolicy, axes AxisConvention) (Evaluator, error) {
	if !axes.Valid() {
		return nil, configErrorf("axes", "unknown axis convention %d", axes)
	}
	switch policy {
	case FitnessDistance:
		return DistanceEvaluator{Axes: axes}, nil
	case FitnessSteps:
		return StepEvaluator{Axes: axes}, nil
	}
	return nil, configErrorf("fitness", "unknown fitness policy %d", policy)
}

// --- Walker ---

// Outcome is how a walk ended
type Outcome uint8

const (
	// Exhausted: every move was consumed
	Exhausted Outcome = iota
	// Reached: the walker entered the end cell
	Reached
	// Collided: a move hit a wall or left the grid
	Collided
)

// WalkMode controls what a blocked move does
type WalkMode uint8

const (
	// HaltOnCollision ends the walk at the first blocked move
	HaltOnCollision WalkMode = iota
	// SkipBlocked leaves the walker in place and continues
	SkipBlocked
)

// Walk is the result of simulating a path
type Walk struct {
	Final   maze.Point
	Outcome Outcome
	// Valid counts moves that changed position
	Valid int
	// Consumed counts moves read before the walk ended
	Consumed int
}

// Simulate walks path from origin. With stopAtEnd the walk ends on entering m.End().
// visit, when non-nil, sees every position change.
func Simulate(path Individual, m *maze.Maze, axes AxisConvention, from maze.Point, mode WalkMode, stopAtEnd bool, visit func(maze.Point)) Walk {
	pos := from
	w := Walk{Final: pos}
	end := m.End()

	for _, mv := range path {
		w.Consumed++
		next := pos.Add(axes.Delta(mv))
		if !m.Walkable(next) {
			if mode == HaltOnCollision {
				w.Final = pos
				w.Outcome = Collided
				return w
			}
			continue
		}

		pos = next
		w.Valid++
		if visit != nil {
			visit(pos)
		}
		if stopAtEnd && pos == end {
			w.Final = pos
			w.Outcome = Reached
			return w
		}
	}

	w.Final = pos
	return w
}

// --- Policies ---

// DistanceEvaluator walks from the start cell. A collision or out-of-bounds step scores 0,
// entering the end cell scores 1, otherwise 1/(euclidean distance to end + 1).
type DistanceEvaluator struct {
	Axes AxisConvention
}

func (e DistanceEvaluator) Evaluate(path Individual, m *maze.Maze) float64 {
	w := Simulate(path, m, e.Axes, m.Start(), HaltOnCollision, true, nil)
	switch w.Outcome {
	case Collided:
		return 0
	case Reached:
		return 1
	}
	end := m.End()
	dist := math.Hypot(float64(w.Final.X-end.X), float64(w.Final.Y-end.Y))
	return 1 / (dist + 1)
}

func (DistanceEvaluator) Ranking() Ranking { return Maximize }

func (DistanceEvaluator) Optimum(*maze.Maze) float64 { return 1 }

// StepEvaluator walks from the origin cell (0,0) and counts moves that landed on an
// in-bounds open cell. Blocked moves are skipped and the walk never ends early.
type StepEvaluator struct {
	Axes AxisConvention
}

func (e StepEvaluator) Evaluate(path Individual, m *maze.Maze) float64 {
	return float64(Simulate(path, m, e.Axes, maze.Point{}, SkipBlocked, false, nil).Valid)
}

func (StepEvaluator) Ranking() Ranking { return Maximize }

// Optimum is one valid step per gene
func (StepEvaluator) Optimum(m *maze.Maze) float64 { return float64(m.Area()) }

// --- Display Helpers ---

// Route is the walk an evaluator scored: visited cells, origin first
type Route struct {
	Cells []maze.Point
	// Reached is true when the walk entered the end cell
	Reached bool
}

// Tracer is implemented by evaluators that can replay the walk they score.
// Evaluators without it are shown with the distance walk.
type Tracer interface {
	Trace(path Individual, m *maze.Maze) Route
}

func (e DistanceEvaluator) Trace(path Individual, m *maze.Maze) Route {
	r := Route{Cells: []maze.Point{m.Start()}}
	w := Simulate(path, m, e.Axes, m.Start(), HaltOnCollision, true, func(p maze.Point) {
		r.Cells = append(r.Cells, p)
	})
	r.Reached = w.Outcome == Reached
	return r
}

// Trace walks from the origin past the end cell, as Evaluate does
func (e StepEvaluator) Trace(path Individual, m *maze.Maze) Route {
	r := Route{Cells: []maze.Point{{}}}
	end := m.End()
	Simulate(path, m, e.Axes, maze.Point{}, SkipBlocked, false, func(p maze.Point) {
		r.Cells = append(r.Cells, p)
		if p == end {
			r.Reached = true
		}
	})
	return r
}

// TraceFor replays path with ev's own walk, falling back to the distance walk
func TraceFor(ev Evaluator, path Individual, m *maze.Maze, axes AxisConvention) Route {
	if tr, ok := ev.(Tracer); ok {
		return tr.Trace(path, m)
	}
	return DistanceEvaluator{Axes: axes}.Trace(path, m)
}

// Trace lists the cells of the distance walk: from the start, ending at the first
// blocked move or on entering the end cell. The start cell is first.
func Trace(path Individual, m *maze.Maze, axes AxisConvention) []maze.Point {
	return DistanceEvaluator{Axes: axes}.Trace(path, m).Cells
}

// Reaches reports whether path enters the end cell before any collision
func Reaches(path Individual, m *maze.Maze, axes AxisConvention) bool {
	return Simulate(path, m, axes, m.Start(), HaltOnCollision, true, nil).Outcome == Reached
}
