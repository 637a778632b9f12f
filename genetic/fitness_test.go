package genetic

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/lixenwraith/mazega/maze"
)

func openGrid(w, h int) [][]maze.Cell {
	grid := make([][]maze.Cell, h)
	for y := range grid {
		grid[y] = make([]maze.Cell, w)
	}
	return grid
}

func preset(t *testing.T, name string) *maze.Maze {
	t.Helper()
	m, err := maze.Preset(name)
	if err != nil {
		t.Fatalf("preset %s: %v", name, err)
	}
	return m
}

// pad extends moves to the maze area with a filler move
func pad(m *maze.Maze, fill Move, moves ...Move) Individual {
	p := make(Individual, m.Area())
	for i := range p {
		p[i] = fill
	}
	copy(p, moves)
	return p
}

// TestDistance_DirectWalk verifies entering the end scores 1 regardless of trailing moves
func TestDistance_DirectWalk(t *testing.T) {
	m := preset(t, maze.PresetOpen5)
	ev := DistanceEvaluator{Axes: AxesCompass}

	// (1,1) -> (3,3); the North filler would leave the grid if the walk continued
	path := pad(m, North, East, East, South, South)
	if got := ev.Evaluate(path, m); got != 1 {
		t.Errorf("Expected 1.0 for a path through the end, got %v", got)
	}
	if !Reaches(path, m, AxesCompass) {
		t.Error("Expected Reaches to report true")
	}
}

// TestDistance_Collisions verifies walls and grid edges score 0
func TestDistance_Collisions(t *testing.T) {
	tests := []struct {
		name  string
		maze  string
		axes  AxisConvention
		first Move
	}{
		{"wall above start", maze.PresetWindow, AxesCompass, North},
		{"wall above start transposed", maze.PresetWindow, AxesTransposed, South},
		{"wall left of start", maze.PresetWindow, AxesCompass, West},
		{"off top edge", maze.PresetConsole, AxesCompass, North},
		{"off left edge", maze.PresetConsole, AxesCompass, West},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := preset(t, tt.maze)
			ev := DistanceEvaluator{Axes: tt.axes}
			path := pad(m, East, tt.first)
			if got := ev.Evaluate(path, m); got != 0 {
				t.Errorf("Expected 0 for a blocked first move, got %v", got)
			}
			if Reaches(path, m, tt.axes) {
				t.Error("Expected Reaches to report false")
			}
		})
	}
}

// TestDistance_Exhausted verifies the inverse-distance score of a walk that stays open
func TestDistance_Exhausted(t *testing.T) {
	m := preset(t, maze.PresetOpen5)
	ev := DistanceEvaluator{Axes: AxesCompass}

	// 25 alternating moves from (1,1) end on (2,1)
	path := make(Individual, m.Area())
	for i := range path {
		path[i] = East
		if i%2 == 1 {
			path[i] = West
		}
	}

	want := 1 / (math.Sqrt(5) + 1)
	if got := ev.Evaluate(path, m); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}

	w := Simulate(path, m, AxesCompass, m.Start(), HaltOnCollision, true, nil)
	if w.Outcome != Exhausted || w.Final != (maze.Point{X: 2, Y: 1}) || w.Consumed != 25 || w.Valid != 25 {
		t.Errorf("Unexpected walk: %+v", w)
	}
}

// TestDistance_Range verifies random paths always score within [0,1]
func TestDistance_Range(t *testing.T) {
	m := preset(t, maze.PresetWindow)
	ev := DistanceEvaluator{Axes: AxesTransposed}
	rng := seeded(17)
	for range 500 {
		s := ev.Evaluate(RandomIndividual(m.Area(), rng), m)
		if s < 0 || s > 1 || math.IsNaN(s) {
			t.Fatalf("Score out of range: %v", s)
		}
	}
}

// TestSteps_SkipsBlocked verifies blocked moves count nothing and do not end the walk
func TestSteps_SkipsBlocked(t *testing.T) {
	m := preset(t, maze.PresetConsole)
	ev := StepEvaluator{Axes: AxesCompass}

	// Row 0 is open: nine moves reach the right edge, the rest are blocked
	if got := ev.Evaluate(uniformPath(m.Area(), East), m); got != 9 {
		t.Errorf("Expected 9 valid steps along the top row, got %v", got)
	}
	if got := ev.Evaluate(uniformPath(m.Area(), North), m); got != 0 {
		t.Errorf("Expected 0 valid steps off the top edge, got %v", got)
	}

	// Blocked, then valid: skipping continues the walk
	path := Individual{North, West, East, South}
	if got := ev.Evaluate(path, m); got != 2 {
		t.Errorf("Expected 2 valid steps, got %v", got)
	}
	if ev.Optimum(m) != 100 {
		t.Errorf("Expected optimum 100, got %v", ev.Optimum(m))
	}
}

// TestSteps_MonotonicPrefix verifies the step score never decreases as the path grows
func TestSteps_MonotonicPrefix(t *testing.T) {
	m := preset(t, maze.PresetConsole)
	ev := StepEvaluator{Axes: AxesCompass}
	rng := seeded(23)

	for range 50 {
		path := RandomIndividual(m.Area(), rng)
		prev := 0.0
		for k := 0; k <= len(path); k++ {
			s := ev.Evaluate(path[:k], m)
			if s < prev {
				t.Fatalf("Score dropped from %v to %v at prefix %d", prev, s, k)
			}
			if s > float64(k) {
				t.Fatalf("Score %v exceeds prefix length %d", s, k)
			}
			prev = s
		}
	}
}

// TestTrace verifies the displayed distance walk ends where the scored walk ends
func TestTrace(t *testing.T) {
	m := preset(t, maze.PresetOpen5)

	path := pad(m, East, East, North, East, South, South, South)
	got := Trace(path, m, AxesCompass)
	want := []maze.Point{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 3, Y: 0},
		{X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !Reaches(path, m, AxesCompass) {
		t.Error("Expected Reaches true")
	}

	// Second North leaves the grid: the scored walk stops there, so does the trace
	path = pad(m, East, North, North, East, East, South, South, South)
	got = Trace(path, m, AxesCompass)
	want = []maze.Point{{X: 1, Y: 1}, {X: 1, Y: 0}}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if Reaches(path, m, AxesCompass) {
		t.Error("Expected Reaches false when an early move collides")
	}
	if s := (DistanceEvaluator{Axes: AxesCompass}).Evaluate(path, m); s != 0 {
		t.Errorf("Expected collision score 0, got %v", s)
	}
}

// TestTraceFor_StepWalk verifies the step route starts at the origin and walks past the end
func TestTraceFor_StepWalk(t *testing.T) {
	m := preset(t, maze.PresetWindow)
	ev := StepEvaluator{Axes: AxesCompass}

	// (0,0) is a wall corner on the window maze with walls on both sides, so the
	// step walk never moves and scores 0
	path := pad(m, West, East, South)
	route := TraceFor(ev, path, m, AxesCompass)
	if route.Cells[0] != (maze.Point{}) {
		t.Errorf("Expected step route to start at the origin, got %v", route.Cells[0])
	}
	if got, want := len(route.Cells)-1, int(ev.Evaluate(path, m)); got != want {
		t.Errorf("Route has %d moves, score counts %d", got, want)
	}
	if route.Reached {
		t.Error("Expected an origin walk on the window maze not to reach the end")
	}

	// Open 10x10 grid: walk the top row then down the right column into the end and beyond
	m = preset(t, maze.PresetConsole)
	moves := make([]Move, 0, 18)
	for range 9 {
		moves = append(moves, East)
	}
	for range 9 {
		moves = append(moves, South)
	}
	path = pad(m, West, moves...)
	route = TraceFor(ev, path, m, AxesCompass)
	if !route.Reached {
		t.Error("Expected the step route to pass through the end")
	}
	if last := route.Cells[len(route.Cells)-1]; last == m.End() {
		t.Errorf("Expected the step walk to continue past the end, stopped at %v", last)
	}
	if got, want := len(route.Cells)-1, int(ev.Evaluate(path, m)); got != want {
		t.Errorf("Route has %d moves, score counts %d", got, want)
	}

	// Evaluators without Tracer fall back to the distance walk
	m = preset(t, maze.PresetOpen5)
	path = pad(m, East, East, East, South, South)
	route = TraceFor(remainingDistance{}, path, m, AxesCompass)
	if !route.Reached || route.Cells[0] != m.Start() {
		t.Errorf("Expected distance fallback from the start, got %+v", route)
	}
}

// TestAxisConvention verifies delta tables and parsing
func TestAxisConvention(t *testing.T) {
	if d := AxesCompass.Delta(North); d != (maze.Point{X: 0, Y: -1}) {
		t.Errorf("compass North: got %v", d)
	}
	if d := AxesTransposed.Delta(North); d != (maze.Point{X: 0, Y: 1}) {
		t.Errorf("transposed North: got %v", d)
	}
	if d := AxesTransposed.Delta(West); d != (maze.Point{X: -1, Y: 0}) {
		t.Errorf("transposed West: got %v", d)
	}

	for _, name := range []string{"compass", "transposed"} {
		a, err := ParseAxisConvention(name)
		if err != nil || a.String() != name {
			t.Errorf("ParseAxisConvention(%q) = %v, %v", name, a, err)
		}
	}
	if _, err := ParseAxisConvention("polar"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration, got %v", err)
	}
}

// TestNewEvaluator verifies policy resolution and rejection
func TestNewEvaluator(t *testing.T) {
	ev, err := NewEvaluator(FitnessDistance, AxesTransposed)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := ev.(DistanceEvaluator); !ok || d.Axes != AxesTransposed {
		t.Errorf("Expected transposed DistanceEvaluator, got %#v", ev)
	}

	ev, err = NewEvaluator(FitnessSteps, AxesCompass)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.(StepEvaluator); !ok {
		t.Errorf("Expected StepEvaluator, got %#v", ev)
	}

	if _, err := NewEvaluator(FitnessPolicy(7), AxesCompass); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for unknown policy, got %v", err)
	}
	if _, err := NewEvaluator(FitnessDistance, AxisConvention(7)); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for unknown axes, got %v", err)
	}

	for _, name := range []string{"distance", "steps"} {
		p, err := ParseFitnessPolicy(name)
		if err != nil || p.String() != name {
			t.Errorf("ParseFitnessPolicy(%q) = %v, %v", name, p, err)
		}
	}
}

// TestRanking verifies comparison direction
func TestRanking(t *testing.T) {
	if !Maximize.Better(2, 1) || Maximize.Better(1, 1) {
		t.Error("Maximize.Better is wrong")
	}
	if !Minimize.Better(1, 2) || Minimize.Better(1, 1) {
		t.Error("Minimize.Better is wrong")
	}
	if !Maximize.AtLeast(1, 1) || !Minimize.AtLeast(0, 0) || Minimize.AtLeast(0.1, 0) {
		t.Error("AtLeast is wrong")
	}
}
