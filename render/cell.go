package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/panes/terminal/ansi"
)

// Cell is a single screen position: one grapheme cluster and its style
// An empty Glyph renders as a space
type Cell struct {
	Glyph string
	Style ansi.Style
}

// blank is the cell every buffer position starts as
var blank = Cell{}

// glyph returns the text emitted for the cell
func (c Cell) glyph() string {
	if c.Glyph == "" {
		return " "
	}
	return c.Glyph
}

// GlyphWidth returns the number of columns g occupies on a terminal
func GlyphWidth(g string) int {
	if g == "" {
		return 1
	}
	return runewidth.StringWidth(g)
}
