// Package geom holds the rectangle type shared by layout, rendering and the event loop.
package geom

// Region is a rectangle of screen cells with a zero-based origin
// Width and Height are never negative
type Region struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// New returns a region with negative dimensions clamped to zero
func New(top, left, width, height int) Region {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Region{Top: top, Left: left, Width: width, Height: height}
}

// Inset returns the region shrunk by n cells on every side
func (r Region) Inset(n int) Region {
	return r.InsetXY(n, n)
}

// InsetXY shrinks by dx columns on the left and right and dy rows on the top and bottom
func (r Region) InsetXY(dx, dy int) Region {
	return New(r.Top+dy, r.Left+dx, r.Width-2*dx, r.Height-2*dy)
}

// Offset translates the region by the given row and column delta
func (r Region) Offset(dRow, dCol int) Region {
	r.Top += dRow
	r.Left += dCol
	return r
}

// Right returns the column just past the last column of the region
func (r Region) Right() int {
	return r.Left + r.Width
}

// Bottom returns the row just past the last row of the region
func (r Region) Bottom() int {
	return r.Top + r.Height
}

// Empty reports whether the region covers no cells
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell at row, col lies inside the region
func (r Region) Contains(row, col int) bool {
	return row >= r.Top && row < r.Bottom() && col >= r.Left && col < r.Right()
}
