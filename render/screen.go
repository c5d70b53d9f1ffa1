package render

import (
	"github.com/rivo/uniseg"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/terminal/ansi"
)

// Screen is a rows x cols cell buffer with a shadow of the last flushed frame
// Only rows that differ from the shadow are rewritten by Flush
type Screen struct {
	rows, cols int
	cells      []Cell
	shadow     []Cell

	// shadowValid is false until the first flush and after a resize or Invalidate
	shadowValid bool
}

// NewScreen creates a blank screen, negative dimensions are treated as zero
func NewScreen(rows, cols int) *Screen {
	s := &Screen{}
	s.Resize(rows, cols)
	return s
}

// Resize replaces both buffers with blank ones of the new size
func (s *Screen) Resize(rows, cols int) {
	rows, cols = max(rows, 0), max(cols, 0)
	s.rows, s.cols = rows, cols
	s.cells = make([]Cell, rows*cols)
	s.shadow = make([]Cell, rows*cols)
	s.shadowValid = false
}

// Size returns the screen dimensions
func (s *Screen) Size() (rows, cols int) {
	return s.rows, s.cols
}

// Bounds returns the whole screen as a region
func (s *Screen) Bounds() geom.Region {
	return geom.Region{Width: s.cols, Height: s.rows}
}

// Invalidate forces the next Flush to rewrite every row
func (s *Screen) Invalidate() {
	s.shadowValid = false
}

// Clear resets every cell to blank, the shadow is untouched
func (s *Screen) Clear() {
	clear(s.cells)
}

// Cell returns the cell at row, col, or a blank cell when out of bounds
func (s *Screen) Cell(row, col int) Cell {
	if !s.inBounds(row, col) {
		return blank
	}
	return s.cells[row*s.cols+col]
}

// SetCell stores glyph at row, col; out of bounds writes are ignored
func (s *Screen) SetCell(row, col int, glyph string, style ansi.Style) {
	if !s.inBounds(row, col) {
		return
	}
	s.cells[row*s.cols+col] = Cell{Glyph: glyph, Style: style}
}

// SetString writes text starting at row, col one grapheme cluster per cell,
// advancing by display width. Cells covered by a wide cluster are blanked.
// Writing stops at the right edge. Returns the number of columns advanced.
func (s *Screen) SetString(row, col int, text string, style ansi.Style) int {
	start := col
	state := -1
	for text != "" && col < s.cols {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		w := GlyphWidth(cluster)
		if w == 0 {
			continue
		}
		if col+w > s.cols {
			break
		}
		s.SetCell(row, col, cluster, style)
		for i := 1; i < w; i++ {
			s.SetCell(row, col+i, "", style)
		}
		col += w
	}
	return col - start
}

// Fill sets every cell of the region to glyph
func (s *Screen) Fill(r geom.Region, glyph string, style ansi.Style) {
	for row := r.Top; row < r.Bottom(); row++ {
		for col := r.Left; col < r.Right(); col++ {
			s.SetCell(row, col, glyph, style)
		}
	}
}

// DrawBorder draws a rounded box along the edge of the region
func (s *Screen) DrawBorder(r geom.Region, style ansi.Style) {
	m := NewBorderMask(s.rows, s.cols)
	m.Add(r, false)
	m.Apply(s, style)
}

func (s *Screen) inBounds(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.cols
}

// rowEqual reports whether a row matches the shadow
func (s *Screen) rowEqual(row int) bool {
	start := row * s.cols
	for i := start; i < start+s.cols; i++ {
		if s.cells[i] != s.shadow[i] {
			return false
		}
	}
	return true
}
