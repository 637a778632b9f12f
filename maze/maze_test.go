package maze

import (
	"errors"
	"testing"
)

func openGrid(w, h int) [][]Cell {
	grid := make([][]Cell, h)
	for y := range grid {
		grid[y] = make([]Cell, w)
	}
	return grid
}

func TestNew_Validation(t *testing.T) {
	walled := openGrid(4, 4)
	walled[0][0] = Wall

	tests := []struct {
		name       string
		grid       [][]Cell
		start, end Point
		wantErr    bool
	}{
		{"valid", openGrid(4, 3), Point{0, 0}, Point{3, 2}, false},
		{"empty grid", nil, Point{0, 0}, Point{1, 1}, true},
		{"zero width", [][]Cell{{}}, Point{0, 0}, Point{1, 1}, true},
		{"ragged rows", [][]Cell{{Open, Open}, {Open}}, Point{0, 0}, Point{1, 0}, true},
		{"start out of bounds", openGrid(4, 4), Point{-1, 0}, Point{3, 3}, true},
		{"end out of bounds", openGrid(4, 4), Point{0, 0}, Point{4, 3}, true},
		{"start on wall", walled, Point{0, 0}, Point{3, 3}, true},
		{"start equals end", openGrid(4, 4), Point{2, 2}, Point{2, 2}, true},
		{"unknown cell", [][]Cell{{Open, Cell(7)}}, Point{0, 0}, Point{1, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.grid, tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got maze %v", m)
				}
				if !errors.Is(err, ErrIntegrity) {
					t.Errorf("expected ErrIntegrity, got %v", err)
				}
				var ie *IntegrityError
				if !errors.As(err, &ie) {
					t.Errorf("expected *IntegrityError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMaze_ZeroValueInvalid(t *testing.T) {
	var m Maze
	if err := m.Validate(); !errors.Is(err, ErrIntegrity) {
		t.Errorf("expected integrity error for zero maze, got %v", err)
	}
	var nilMaze *Maze
	if err := nilMaze.Validate(); !errors.Is(err, ErrIntegrity) {
		t.Errorf("expected integrity error for nil maze, got %v", err)
	}
}

func TestMaze_CopiesInput(t *testing.T) {
	grid := openGrid(3, 3)
	m := MustNew(grid, Point{0, 0}, Point{2, 2})

	grid[1][1] = Wall
	if m.At(Point{1, 1}) != Open {
		t.Error("maze must not alias the caller's grid")
	}

	out := m.Grid()
	out[0][1] = Wall
	if m.At(Point{1, 0}) != Open {
		t.Error("Grid() must return a copy")
	}
}

func TestMaze_Accessors(t *testing.T) {
	m, err := Preset(PresetWindow)
	if err != nil {
		t.Fatal(err)
	}
	if m.Width() != 10 || m.Height() != 10 || m.Area() != 100 {
		t.Errorf("unexpected dimensions %dx%d", m.Width(), m.Height())
	}
	if m.Start() != (Point{1, 1}) || m.End() != (Point{8, 8}) {
		t.Errorf("unexpected start/end %v %v", m.Start(), m.End())
	}
	if m.At(Point{-1, 0}) != Wall {
		t.Error("out-of-bounds must read as wall")
	}
	if m.Walkable(Point{10, 5}) {
		t.Error("out-of-bounds must not be walkable")
	}
	if m.At(Point{2, 2}) != Wall {
		t.Error("expected wall at (2,2)")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			m, err := Preset(name)
			if err != nil {
				t.Fatalf("preset %s: %v", name, err)
			}
			again, err := Parse(Format(m))
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}
			if Format(again) != Format(m) {
				t.Errorf("round trip mismatch:\n%s\nvs\n%s", Format(again), Format(m))
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":       "\n\n",
		"no start":    "...\n..E\n",
		"two ends":    "S.E\n..E\n",
		"bad rune":    "S.x\n..E\n",
		"ragged rows": "S..\n.E\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(text); !errors.Is(err, ErrIntegrity) {
				t.Errorf("expected integrity error, got %v", err)
			}
		})
	}
}

func TestPreset_Unknown(t *testing.T) {
	if _, err := Preset("labyrinth"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresets_Solvable(t *testing.T) {
	for _, name := range PresetNames() {
		m, _ := Preset(name)
		if ShortestPath(m) == nil {
			t.Errorf("preset %s has no route from start to end", name)
		}
	}
}

func TestShortestPath(t *testing.T) {
	m, err := Parse(`
S#.
.#.
..E
`)
	if err != nil {
		t.Fatal(err)
	}
	path := ShortestPath(m)
	want := []Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}
	if len(path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("step %d: expected %v, got %v", i, want[i], path[i])
		}
	}

	blocked, _ := Parse("S#E\n")
	if ShortestPath(blocked) != nil {
		t.Error("expected nil path when end is unreachable")
	}
}
