package render

import (
	"bufio"
	"io"

	"github.com/lixenwraith/panes/terminal/ansi"
)

// flushBufferSize covers a full frame of a large terminal in one write
const flushBufferSize = 64 * 1024

// Flush writes every row that differs from the shadow and then replaces the
// shadow with the current frame. Each dirty row is rewritten from column 0,
// emitting an SGR sequence only when the style changes. Returns the number of
// rows written.
func (s *Screen) Flush(w io.Writer) (int, error) {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriterSize(w, flushBufferSize)
	}

	written := 0
	for row := 0; row < s.rows; row++ {
		if s.shadowValid && s.rowEqual(row) {
			continue
		}
		s.writeRow(bw, row)
		written++
	}
	if written > 0 {
		bw.Write(ansi.Reset)
	}

	copy(s.shadow, s.cells)
	s.shadowValid = true

	return written, bw.Flush()
}

// writeRow emits one row, skipping cells covered by a preceding wide glyph
func (s *Screen) writeRow(bw *bufio.Writer, row int) {
	ansi.WriteCursorPos(bw, row+1, 1)

	var last ansi.Style
	styleValid := false
	covered := 0

	base := row * s.cols
	for col := 0; col < s.cols; col++ {
		if covered > 0 {
			covered--
			continue
		}
		c := s.cells[base+col]
		g := c.glyph()
		w := GlyphWidth(g)
		// Zero-width or overrunning glyphs would desync the cursor
		if w < 1 || col+w > s.cols {
			g, w = " ", 1
		}

		if !styleValid || c.Style != last {
			ansi.WriteStyle(bw, c.Style)
			last = c.Style
			styleValid = true
		}
		bw.WriteString(g)
		covered = w - 1
	}
}
