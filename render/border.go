package render

import (
	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/terminal/ansi"
)

// Edge flags record which neighbours a border cell connects to
type Edge uint8

const (
	EdgeNorth Edge = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

const (
	edgesVertical   = EdgeNorth | EdgeSouth
	edgesHorizontal = EdgeEast | EdgeWest
)

// joinGlyphs maps a full edge set to its box-drawing character, rounded corners
var joinGlyphs = map[Edge]string{
	EdgeNorth | EdgeSouth | EdgeEast | EdgeWest: "┼",
	EdgeSouth | EdgeEast | EdgeWest:             "┬",
	EdgeNorth | EdgeEast | EdgeWest:             "┴",
	EdgeNorth | EdgeSouth | EdgeEast:            "├",
	EdgeNorth | EdgeSouth | EdgeWest:            "┤",
	EdgeNorth | EdgeSouth:                       "│",
	EdgeEast | EdgeWest:                         "─",
	EdgeSouth | EdgeEast:                        "╭",
	EdgeSouth | EdgeWest:                        "╮",
	EdgeNorth | EdgeEast:                        "╰",
	EdgeNorth | EdgeWest:                        "╯",
}

// JoinGlyph returns the glyph joining the given edges
// Sets with no exact glyph fall back to a vertical bar if they reach north
// or south, otherwise a horizontal bar
func JoinGlyph(e Edge) string {
	if g, ok := joinGlyphs[e]; ok {
		return g
	}
	if e&edgesVertical != 0 {
		return "│"
	}
	return "─"
}

// BorderMask accumulates the border edges of many regions so that shared
// borders resolve to a single joined glyph
type BorderMask struct {
	rows, cols int
	edges      []Edge
	dim        []bool
}

// NewBorderMask creates an empty mask for a rows x cols screen
func NewBorderMask(rows, cols int) *BorderMask {
	rows, cols = max(rows, 0), max(cols, 0)
	return &BorderMask{
		rows:  rows,
		cols:  cols,
		edges: make([]Edge, rows*cols),
		dim:   make([]bool, rows*cols),
	}
}

// Add marks the border of r. A one column region is a vertical divider.
// dim tags the cells so Apply draws them with the dimmed style.
func (m *BorderMask) Add(r geom.Region, dim bool) {
	if r.Width == 1 && r.Height > 1 {
		for row := r.Top; row < r.Bottom(); row++ {
			m.mark(row, r.Left, edgesVertical, dim)
		}
		return
	}
	if r.Width <= 1 || r.Height < 1 {
		return
	}

	top, bottom := r.Top, r.Bottom()-1
	left, right := r.Left, r.Right()-1

	for col := left + 1; col < right; col++ {
		m.mark(top, col, edgesHorizontal, dim)
		m.mark(bottom, col, edgesHorizontal, dim)
	}
	for row := top + 1; row < bottom; row++ {
		m.mark(row, left, edgesVertical, dim)
		m.mark(row, right, edgesVertical, dim)
	}

	// Single row regions have top == bottom and pick up both sets
	m.mark(top, left, EdgeSouth|EdgeEast, dim)
	m.mark(top, right, EdgeSouth|EdgeWest, dim)
	m.mark(bottom, left, EdgeNorth|EdgeEast, dim)
	m.mark(bottom, right, EdgeNorth|EdgeWest, dim)
}

// Edges returns the accumulated flags at row, col
func (m *BorderMask) Edges(row, col int) Edge {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0
	}
	return m.edges[row*m.cols+col]
}

// Apply draws every marked cell onto the screen
func (m *BorderMask) Apply(s *Screen, style ansi.Style) {
	for i, e := range m.edges {
		if e == 0 {
			continue
		}
		st := style
		if m.dim[i] {
			st |= ansi.StyleDim
		}
		s.SetCell(i/m.cols, i%m.cols, JoinGlyph(e), st)
	}
}

func (m *BorderMask) mark(row, col int, e Edge, dim bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return
	}
	i := row*m.cols + col
	m.edges[i] |= e
	if dim {
		m.dim[i] = true
	}
}
