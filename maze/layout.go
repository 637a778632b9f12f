package maze

import (
	"fmt"
	"sort"
	"strings"
)

// Layout text runes
const (
	RuneWall  = '#'
	RuneOpen  = '.'
	RuneStart = 'S'
	RuneEnd   = 'E'
)

// Parse reads a layout: one line per row, '#' wall, '.' or ' ' open,
// 'S' start and 'E' end (both open). Blank lines around the grid are ignored.
func Parse(text string) (*Maze, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, integrityf("layout is empty")
	}

	var (
		grid       = make([][]Cell, len(lines))
		start, end Point
		starts     int
		ends       int
	)
	for y, line := range lines {
		row := []rune(line)
		grid[y] = make([]Cell, len(row))
		for x, r := range row {
			switch r {
			case RuneWall:
				grid[y][x] = Wall
			case RuneOpen, ' ':
				grid[y][x] = Open
			case RuneStart:
				start = Point{x, y}
				starts++
			case RuneEnd:
				end = Point{x, y}
				ends++
			default:
				return nil, integrityf("unexpected %q at (%d,%d)", r, x, y)
			}
		}
	}
	if starts != 1 {
		return nil, integrityf("layout needs exactly one %q (found %d)", RuneStart, starts)
	}
	if ends != 1 {
		return nil, integrityf("layout needs exactly one %q (found %d)", RuneEnd, ends)
	}
	return New(grid, start, end)
}

// Format writes m back in layout text
func Format(m *Maze) string {
	var b strings.Builder
	b.Grow((m.width + 1) * m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := Point{x, y}
			switch {
			case p == m.start:
				b.WriteRune(RuneStart)
			case p == m.end:
				b.WriteRune(RuneEnd)
			case m.At(p) == Wall:
				b.WriteRune(RuneWall)
			default:
				b.WriteRune(RuneOpen)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Preset layouts
const (
	// PresetWindow is the bordered 10x10 maze of the windowed solver
	PresetWindow = "window"
	// PresetConsole is the open 10x10 grid with two wall bars of the console solver
	PresetConsole = "console"
	// PresetOpen5 is a wall-free 5x5 grid used for convergence checks
	PresetOpen5 = "open5"
)

var presets = map[string]string{
	PresetWindow: `
##########
#S..#....#
#.#.#..#.#
#.#.##.#.#
#.#....#.#
#.##.###.#
#.####...#
#.#...#.##
#...#...E#
##########
`,
	PresetConsole: `
S.........
..........
.###......
..........
..........
....###...
..........
..........
..........
.........E
`,
	PresetOpen5: `
.....
.S...
.....
...E.
.....
`,
}

// Preset returns a named built-in maze
func Preset(name string) (*Maze, error) {
	text, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown maze preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	return Parse(text)
}

// PresetNames lists built-in maze names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
