package maze

import (
	"errors"
	"fmt"
)

// Cell is the kind of a single grid square
type Cell uint8

const (
	Open Cell = iota
	Wall
)

func (c Cell) String() string {
	switch c {
	case Open:
		return "open"
	case Wall:
		return "wall"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Point is a grid coordinate, X is the column and Y the row
type Point struct {
	X, Y int
}

// Add returns p translated by d
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// ErrIntegrity is wrapped by every maze validation failure
var ErrIntegrity = errors.New("maze integrity")

// IntegrityError reports a maze that cannot be searched
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "maze integrity: " + e.Reason
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

func integrityf(format string, args ...any) error {
	return &IntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// Maze is an immutable grid with a start and an end cell.
// A *Maze is safe to share between goroutines once constructed.
type Maze struct {
	width, height int
	cells         []Cell // row-major
	start, end    Point
}

// New copies grid (indexed grid[y][x]) into a validated Maze
func New(grid [][]Cell, start, end Point) (*Maze, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, integrityf("grid has zero size")
	}
	h, w := len(grid), len(grid[0])
	cells := make([]Cell, 0, w*h)
	for y, row := range grid {
		if len(row) != w {
			return nil, integrityf("row %d has width %d, want %d", y, len(row), w)
		}
		for x, c := range row {
			if c != Open && c != Wall {
				return nil, integrityf("unknown cell kind %d at (%d,%d)", c, x, y)
			}
		}
		cells = append(cells, row...)
	}

	m := &Maze{width: w, height: h, cells: cells, start: start, end: end}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNew is New for fixed layouts known to be valid
func MustNew(grid [][]Cell, start, end Point) *Maze {
	m, err := New(grid, start, end)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate checks dimensions and start/end placement
func (m *Maze) Validate() error {
	if m == nil {
		return integrityf("maze is nil")
	}
	if m.width <= 0 || m.height <= 0 {
		return integrityf("dimensions must be positive (got %dx%d)", m.width, m.height)
	}
	if len(m.cells) != m.width*m.height {
		return integrityf("cell count %d does not match %dx%d", len(m.cells), m.width, m.height)
	}
	if !m.InBounds(m.start) {
		return integrityf("start %v outside %dx%d grid", m.start, m.width, m.height)
	}
	if !m.InBounds(m.end) {
		return integrityf("end %v outside %dx%d grid", m.end, m.width, m.height)
	}
	if m.At(m.start) == Wall {
		return integrityf("start %v is a wall", m.start)
	}
	if m.At(m.end) == Wall {
		return integrityf("end %v is a wall", m.end)
	}
	if m.start == m.end {
		return integrityf("start and end are both %v", m.start)
	}
	return nil
}

func (m *Maze) Width() int   { return m.width }
func (m *Maze) Height() int  { return m.height }
func (m *Maze) Start() Point { return m.start }
func (m *Maze) End() Point   { return m.end }

// Area is Width*Height, the length of every individual searched over this maze
func (m *Maze) Area() int { return m.width * m.height }

// InBounds reports whether p lies on the grid
func (m *Maze) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// At returns the cell at p; out-of-bounds points read as Wall
func (m *Maze) At(p Point) Cell {
	if !m.InBounds(p) {
		return Wall
	}
	return m.cells[p.Y*m.width+p.X]
}

// Walkable reports whether p is an in-bounds open cell
func (m *Maze) Walkable(p Point) bool {
	return m.InBounds(p) && m.cells[p.Y*m.width+p.X] == Open
}

// Grid returns a fresh [y][x] copy of the cells
func (m *Maze) Grid() [][]Cell {
	grid := make([][]Cell, m.height)
	for y := range grid {
		grid[y] = make([]Cell, m.width)
		copy(grid[y], m.cells[y*m.width:(y+1)*m.width])
	}
	return grid
}

// WallCount returns the number of wall cells
func (m *Maze) WallCount() int {
	n := 0
	for _, c := range m.cells {
		if c == Wall {
			n++
		}
	}
	return n
}
