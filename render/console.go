package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/mazega/genetic"
	"github.com/lixenwraith/mazega/parameter"
)

// Console prints progress lines to a writer, throttled, and the traced best path at the end.
// It is an engine observer; the engine serialises calls.
type Console struct {
	out      io.Writer
	limiter  *rate.Limiter
	every    int
	showMaze bool

	label lipgloss.Style
	value lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
	grid  lipgloss.Style
}

// ConsoleOption configures a Console
type ConsoleOption func(*Console)

// WithEvery prints only generations divisible by n (terminal progress always prints)
func WithEvery(n int) ConsoleOption {
	return func(c *Console) { c.every = n }
}

// WithInterval sets the minimum time between progress lines; 0 disables throttling
func WithInterval(d time.Duration) ConsoleOption {
	return func(c *Console) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithMaze draws the best path under every printed line, not only the last
func WithMaze(show bool) ConsoleOption {
	return func(c *Console) { c.showMaze = show }
}

// NewConsole creates a console view. Color is used only when out is a terminal.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	r := lipgloss.NewRenderer(out)
	c := &Console{
		out:     out,
		limiter: rate.NewLimiter(rate.Every(parameter.RenderConsoleInterval), 1),
		label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		value:   r.NewStyle().Bold(true),
		good:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		bad:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		grid:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) Observe(p genetic.Progress) {
	final := p.State.Terminal()
	if !final {
		if c.every > 1 && p.Generation%c.every != 0 {
			return
		}
		if !c.limiter.Allow() {
			return
		}
	}

	fmt.Fprintln(c.out, c.line(p))
	if final || c.showMaze {
		fmt.Fprint(c.out, c.grid.Render(strings.TrimRight(FormatOverlay(p.Maze, p.Route.Cells), "\n")))
		fmt.Fprintln(c.out)
	}
	if final {
		fmt.Fprintln(c.out, c.summary(p))
	}
}

func (c *Console) line(p genetic.Progress) string {
	return fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		c.label.Render("generation"), c.value.Render(fmt.Sprintf("%5d", p.Generation)),
		c.label.Render("best"), c.value.Render(fmt.Sprintf("%.4f", p.Best.Score)),
		c.label.Render("best so far"), c.value.Render(fmt.Sprintf("%.4f", p.BestSoFar.Score)),
		c.label.Render("mean"), c.value.Render(fmt.Sprintf("%.4f", p.Stats.Mean)),
	)
}

func (c *Console) summary(p genetic.Progress) string {
	outcome := c.bad.Render("end not reached")
	if p.Route.Reached {
		outcome = c.good.Render("end reached")
	}
	return fmt.Sprintf("%s after generation %d: best %.4f from generation %d, %s\n%s %s",
		p.State, p.Generation, p.BestSoFar.Score, p.BestSoFar.Generation, outcome,
		c.label.Render("moves"), p.BestSoFar.Path)
}
