package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/terminal/ansi"
)

// writeClipped writes text truncated to width columns and returns the columns used
func writeClipped(s *render.Screen, row, col, width int, text string, style ansi.Style) int {
	if width <= 0 {
		return 0
	}
	return s.SetString(row, col, runewidth.Truncate(text, width, ""), style)
}
