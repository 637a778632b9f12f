package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/mazega/genetic"
	"github.com/lixenwraith/mazega/maze"
)

// Layout rows
const (
	statusRow = 0
	gridTop   = 2
)

// TerminalRenderer is a full-screen live view of a run. Observe draws the newest
// progress at most fps times per second; Run handles keys and resizes.
type TerminalRenderer struct {
	screen  tcell.Screen
	limiter *rate.Limiter
	onQuit  func()
	quitted sync.Once

	mu   sync.Mutex
	last genetic.Progress
	has  bool
}

// NewTerminalRenderer wraps an initialised screen. onQuit runs once on q, Esc or Ctrl-C.
func NewTerminalRenderer(screen tcell.Screen, fps int, onQuit func()) *TerminalRenderer {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Every(time.Second / time.Duration(fps))
	}
	return &TerminalRenderer{
		screen:  screen,
		limiter: rate.NewLimiter(limit, 1),
		onQuit:  onQuit,
	}
}

func (r *TerminalRenderer) Observe(p genetic.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = p
	r.has = true
	if p.State.Terminal() || r.limiter.Allow() {
		r.drawLocked()
	}
}

// Run processes screen events until ctx is done or the screen stops delivering them
func (r *TerminalRenderer) Run(ctx context.Context) {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go r.screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.handleEvent(ev)
		}
	}
}

func (r *TerminalRenderer) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			r.quitted.Do(func() {
				if r.onQuit != nil {
					r.onQuit()
				}
			})
		}

	case *tcell.EventResize:
		r.mu.Lock()
		r.screen.Sync()
		r.drawLocked()
		r.mu.Unlock()
	}
}

func (r *TerminalRenderer) drawLocked() {
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', defaultStyle)

	if !r.has {
		r.drawText(0, statusRow, "waiting for first generation", defaultStyle.Foreground(RgbHint))
		r.screen.Show()
		return
	}

	p := r.last
	r.drawStatusBar(p)
	r.drawGrid(p.Maze, p.Route, defaultStyle)

	_, height := r.screen.Size()
	hint := "q/Esc stop"
	if p.State.Terminal() {
		hint = "q/Esc quit"
	}
	r.drawText(0, height-1, hint, defaultStyle.Foreground(RgbHint))
	r.screen.Show()
}

func (r *TerminalRenderer) drawStatusBar(p genetic.Progress) {
	width, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(RgbStatusText).Background(statusBg(p.State))
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, statusRow, ' ', nil, style)
	}

	text := fmt.Sprintf(" %s  gen %d  best %.4f  best so far %.4f (gen %d)  mean %.4f ",
		p.State, p.Generation, p.Best.Score, p.BestSoFar.Score, p.BestSoFar.Generation, p.Stats.Mean)
	r.drawText(0, statusRow, text, style)
}

func (r *TerminalRenderer) drawGrid(m *maze.Maze, route genetic.Route, defaultStyle tcell.Style) {
	pathColor := RgbPath
	if route.Reached {
		pathColor = RgbSolved
	}

	for y, row := range Overlay(m, route.Cells) {
		for x, ch := range row {
			style := defaultStyle
			switch ch {
			case GlyphWall:
				style = style.Foreground(RgbWall)
			case GlyphOpen:
				style = style.Background(RgbOpen)
			case GlyphPath:
				style = style.Foreground(pathColor).Background(RgbOpen)
			case GlyphHead:
				style = style.Foreground(RgbPathHead).Background(RgbOpen)
			case GlyphStart:
				style = style.Foreground(RgbStart).Background(RgbOpen).Bold(true)
			case GlyphEnd:
				style = style.Foreground(RgbEnd).Background(RgbOpen).Bold(true)
			}
			r.screen.SetContent(x, gridTop+y, ch, nil, style)
		}
	}
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
