package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/mazega/genetic"
)

// RGB color definitions for the live view
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(90, 95, 120)   // Muted slate
	RgbOpen       = tcell.NewRGBColor(40, 42, 56)    // Slightly lifted background
	RgbPath       = tcell.NewRGBColor(0, 200, 200)   // Vibrant cyan
	RgbPathHead   = tcell.NewRGBColor(255, 165, 0)   // Orange, where the walk stopped
	RgbStart      = tcell.NewRGBColor(50, 255, 50)   // Bright green
	RgbEnd        = tcell.NewRGBColor(255, 80, 80)   // Normal red
	RgbSolved     = tcell.NewRGBColor(255, 255, 0)   // Bright yellow
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
	RgbStatusBg   = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbStoppedBg  = tcell.NewRGBColor(200, 50, 50)   // Red when stopped
	RgbDoneBg     = tcell.NewRGBColor(144, 238, 144) // Light grass green when converged
	RgbHint       = tcell.NewRGBColor(180, 180, 180) // Brighter gray
)

// Glyphs shared by the console and screen views
const (
	GlyphWall  = '█'
	GlyphOpen  = ' '
	GlyphPath  = '•'
	GlyphHead  = '◆'
	GlyphStart = 'S'
	GlyphEnd   = 'E'
)

// statusBg picks the status bar background for a state
func statusBg(state genetic.State) tcell.Color {
	switch state {
	case genetic.StateStopped:
		return RgbStoppedBg
	case genetic.StateConverged:
		return RgbDoneBg
	default:
		return RgbStatusBg
	}
}
