package render

import (
	"strings"

	"github.com/lixenwraith/mazega/maze"
)

// Overlay renders m as rune rows with cells drawn as a path.
// The last cell of a path that did not reach the end is marked as the head.
func Overlay(m *maze.Maze, cells []maze.Point) [][]rune {
	rows := make([][]rune, m.Height())
	for y := range rows {
		rows[y] = make([]rune, m.Width())
		for x := range rows[y] {
			if m.At(maze.Point{X: x, Y: y}) == maze.Wall {
				rows[y][x] = GlyphWall
			} else {
				rows[y][x] = GlyphOpen
			}
		}
	}

	for _, c := range cells {
		if m.InBounds(c) {
			rows[c.Y][c.X] = GlyphPath
		}
	}
	if n := len(cells); n > 1 {
		if head := cells[n-1]; head != m.End() && m.InBounds(head) {
			rows[head.Y][head.X] = GlyphHead
		}
	}

	rows[m.Start().Y][m.Start().X] = GlyphStart
	rows[m.End().Y][m.End().X] = GlyphEnd
	return rows
}

// FormatOverlay joins Overlay rows with newlines
func FormatOverlay(m *maze.Maze, cells []maze.Point) string {
	var b strings.Builder
	for _, row := range Overlay(m, cells) {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
