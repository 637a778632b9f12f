package maze

import (
	"math/rand/v2"
	"time"
)

// GeneratorConfig drives the stochastic maze generator
type GeneratorConfig struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, a tree) to 1.0 (no dead ends).
	// Higher values add cycles. The no-plaza and no-pillar constraints take precedence.
	Braiding float64

	// OpenBorders clears the outer ring of walls
	OpenBorders bool

	StartPos *Point // nil = top-left room
	EndPos   *Point // nil = bottom-right room
	Seed     uint64 // 0 = random
}

// Generated is a maze plus the reference shortest route found by BFS
type Generated struct {
	Maze         *Maze
	SolutionPath []Point
}

// Generate builds a maze with a recursive backtracker, then optionally braids it
func Generate(cfg GeneratorConfig) (Generated, error) {
	// Rounded down to odd so every room has a wall ring
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	grid := make([][]Cell, rows)
	for i := range grid {
		grid[i] = make([]Cell, cols)
		for j := range grid[i] {
			grid[i][j] = Wall
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	start := resolvePoint(rows, cols, cfg.StartPos, 1, 1)
	end := resolvePoint(rows, cols, cfg.EndPos, cols-2, rows-2)

	recursiveBacktracker(grid, start, rng)

	// Borders go before braiding so edge rooms count their outside exits
	if cfg.OpenBorders {
		stripBorders(grid)
	}

	if cfg.Braiding > 0 {
		applySmartBraiding(grid, cfg.Braiding, rng)
	}

	forceOpen(grid, start)
	forceOpen(grid, end)

	m, err := New(grid, start, end)
	if err != nil {
		return Generated{}, err
	}
	return Generated{Maze: m, SolutionPath: ShortestPath(m)}, nil
}

var (
	orthogonal = []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	jumps      = []Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
)

func recursiveBacktracker(grid [][]Cell, start Point, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	// Carving runs over odd rooms; an even or out-of-range start snaps to (1,1)
	if start.X <= 0 || start.X >= cols-1 || start.Y <= 0 || start.Y >= rows-1 || start.X%2 == 0 || start.Y%2 == 0 {
		start = Point{1, 1}
	}

	stack := []Point{start}
	grid[start.Y][start.X] = Open

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]Point, 0, 4)

		for _, d := range jumps {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && grid[ny][nx] == Wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.IntN(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = Open
		next := Point{curr.X + d.X, curr.Y + d.Y}
		grid[next.Y][next.X] = Open
		stack = append(stack, next)
	}
}

func applySmartBraiding(grid [][]Cell, probability float64, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if grid[y][x] == Wall {
				continue
			}

			// Dead end: exactly one open neighbour
			exits := 0
			for _, d := range orthogonal {
				if grid[y+d.Y][x+d.X] == Open {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]Point, 0, 4)
			for _, jd := range jumps {
				nx, ny := x+jd.X, y+jd.Y
				wx, wy := x+jd.X/2, y+jd.Y/2
				if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
					continue
				}
				if grid[ny][nx] == Open && grid[wy][wx] == Wall && canSafelyRemoveWall(grid, wx, wy) {
					candidates = append(candidates, Point{wx, wy})
				}
			}

			if len(candidates) > 0 {
				c := candidates[rng.IntN(len(candidates))]
				grid[c.Y][c.X] = Open
			}
		}
	}
}

// canSafelyRemoveWall reports whether opening grid[y][x] avoids
// 2x2 open plazas and isolated wall pillars
func canSafelyRemoveWall(grid [][]Cell, x, y int) bool {
	rows, cols := len(grid), len(grid[0])

	isOpen := func(tx, ty int) bool {
		if tx < 0 || tx >= cols || ty < 0 || ty >= rows {
			return false
		}
		return grid[ty][tx] == Open
	}

	// The four 2x2 quadrants that would contain (x,y)
	if isOpen(x-1, y-1) && isOpen(x, y-1) && isOpen(x-1, y) {
		return false
	}
	if isOpen(x, y-1) && isOpen(x+1, y-1) && isOpen(x+1, y) {
		return false
	}
	if isOpen(x-1, y) && isOpen(x-1, y+1) && isOpen(x, y+1) {
		return false
	}
	if isOpen(x+1, y) && isOpen(x, y+1) && isOpen(x+1, y+1) {
		return false
	}

	for _, d := range orthogonal {
		nx, ny := x+d.X, y+d.Y
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows || grid[ny][nx] != Wall {
			continue
		}

		// (x,y) counts as open for this check
		wallConnections := 0
		for _, d2 := range orthogonal {
			nnx, nny := nx+d2.X, ny+d2.Y
			if nnx == x && nny == y {
				continue
			}
			if nnx >= 0 && nnx < cols && nny >= 0 && nny < rows && grid[nny][nnx] == Wall {
				wallConnections++
			}
		}
		if wallConnections == 0 {
			return false
		}
	}

	return true
}

func stripBorders(grid [][]Cell) {
	rows, cols := len(grid), len(grid[0])
	for x := 0; x < cols; x++ {
		grid[0][x] = Open
		grid[rows-1][x] = Open
	}
	for y := 0; y < rows; y++ {
		grid[y][0] = Open
		grid[y][cols-1] = Open
	}
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func resolvePoint(rows, cols int, p *Point, defX, defY int) Point {
	if p == nil {
		return Point{defX, defY}
	}
	return Point{min(max(p.X, 0), cols-1), min(max(p.Y, 0), rows-1)}
}

func forceOpen(grid [][]Cell, p Point) {
	rows, cols := len(grid), len(grid[0])
	grid[p.Y][p.X] = Open

	for _, d := range orthogonal {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx >= 0 && nx < cols && ny >= 0 && ny < rows && grid[ny][nx] == Open {
			return
		}
	}

	// Isolated: punch through to the first interior neighbour
	for _, d := range orthogonal {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 {
			grid[ny][nx] = Open
			return
		}
	}
}

// ShortestPath returns a BFS route from start to end inclusive, or nil if none exists
func ShortestPath(m *Maze) []Point {
	start, end := m.Start(), m.End()
	if !m.Walkable(start) || !m.Walkable(end) {
		return nil
	}

	queue := []Point{start}
	cameFrom := make(map[Point]Point)
	visited := map[Point]bool{start: true}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == end {
			path := []Point{curr}
			for curr != start {
				curr = cameFrom[curr]
				path = append(path, curr)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range orthogonal {
			next := curr.Add(d)
			if m.Walkable(next) && !visited[next] {
				visited[next] = true
				cameFrom[next] = curr
				queue = append(queue, next)
			}
		}
	}
	return nil
}
