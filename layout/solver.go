package layout

import (
	"math"

	"github.com/lixenwraith/panes/geom"
)

// pivotTolerance is the smallest magnitude accepted as a pivot
const pivotTolerance = 1e-6

// Container addresses the enclosing container in an Anchor
const Container = -1

// Attribute names one edge or dimension of a widget rectangle
type Attribute uint8

const (
	AttrLeft Attribute = iota
	AttrTop
	AttrWidth
	AttrHeight
	AttrRight  // Left + Width
	AttrBottom // Top + Height
)

// Relation between the two sides of a constraint
type Relation uint8

const (
	Equal Relation = iota
	LessOrEqual
	GreaterOrEqual
)

// Anchor is one attribute of a widget, or of the container when Widget is Container
type Anchor struct {
	Widget int
	Attr   Attribute
}

// Constraint states First = Multiplier*Second + Constant, or First = Constant when Second is nil
// Only Equal constraints are solved, the others are accepted and ignored
type Constraint struct {
	First      Anchor
	Relation   Relation
	Second     *Anchor
	Multiplier float64
	Constant   float64
}

// Eq pins an anchor to a constant
func Eq(first Anchor, constant float64) Constraint {
	return Constraint{First: first, Relation: Equal, Constant: constant}
}

// Link states first = second + constant
func Link(first, second Anchor, constant float64) Constraint {
	return Scaled(first, second, 1, constant)
}

// Scaled states first = multiplier*second + constant
func Scaled(first, second Anchor, multiplier, constant float64) Constraint {
	return Constraint{First: first, Relation: Equal, Second: &second, Multiplier: multiplier, Constant: constant}
}

// Solver places widgets by solving linear equality constraints over their rectangles
// Each widget contributes four unknowns: left, top, width, height
// Dense Gauss-Jordan elimination keeps it suitable for small widget counts only
type Solver struct {
	Widgets     int
	Constraints []Constraint

	width, height int
}

// NewSolver creates a solver for the given number of widgets
func NewSolver(widgets int, constraints ...Constraint) *Solver {
	return &Solver{Widgets: widgets, Constraints: constraints}
}

// Add appends constraints
func (s *Solver) Add(constraints ...Constraint) {
	s.Constraints = append(s.Constraints, constraints...)
}

// Update caches the container size
func (s *Solver) Update(width, height int) {
	s.width, s.height = width, height
}

func (s *Solver) DesiredWidth() (int, bool)  { return 0, false }
func (s *Solver) DesiredHeight() (int, bool) { return 0, false }

// MinimalSize is zero, unresolved sizes fill whatever container is given
func (s *Solver) MinimalSize(count int) (int, int) {
	return 0, 0
}

// Regions solves the system and returns a slot per widget below count
// A width or height left at zero fills the container from the widget's origin
func (s *Solver) Regions(count int) []Slot {
	n := min(s.Widgets, count)
	if n <= 0 {
		return nil
	}

	values := s.Solve()
	slots := make([]Slot, 0, n)
	for i := 0; i < n; i++ {
		left := round(values[4*i])
		top := round(values[4*i+1])
		w := round(values[4*i+2])
		h := round(values[4*i+3])
		if w == 0 {
			w = s.width - left
		}
		if h == 0 {
			h = s.height - top
		}
		slots = append(slots, Slot{Component: i, Region: geom.New(max(top, 0), max(left, 0), w, h)})
	}
	return slots
}

// Solve returns the raw variable values, four per widget in left, top, width, height order
// Variables without a pivot resolve to zero
func (s *Solver) Solve() []float64 {
	vars := 4 * s.Widgets

	var matrix [][]float64
	for _, c := range s.Constraints {
		if c.Relation != Equal {
			continue
		}
		row, ok := s.row(c, vars)
		if !ok {
			continue
		}
		matrix = append(matrix, row)
	}

	return gaussJordan(matrix, vars)
}

// row converts a constraint into coefficients over vars with the right-hand side in the last column
func (s *Solver) row(c Constraint, vars int) ([]float64, bool) {
	row := make([]float64, vars+1)

	constFirst, ok := s.term(c.First, 1, row)
	if !ok {
		return nil, false
	}
	rhs := c.Constant - constFirst

	if c.Second != nil {
		constSecond, ok := s.term(*c.Second, -c.Multiplier, row)
		if !ok {
			return nil, false
		}
		rhs += c.Multiplier * constSecond
	}

	row[vars] = rhs
	return row, true
}

// term adds scale times the anchor's coefficients into row and returns its constant part
func (s *Solver) term(a Anchor, scale float64, row []float64) (float64, bool) {
	if a.Widget == Container {
		switch a.Attr {
		case AttrLeft, AttrTop:
			return 0, true
		case AttrWidth, AttrRight:
			return float64(s.width), true
		case AttrHeight, AttrBottom:
			return float64(s.height), true
		}
		return 0, false
	}

	if a.Widget < 0 || a.Widget >= s.Widgets {
		return 0, false
	}

	base := 4 * a.Widget
	switch a.Attr {
	case AttrLeft:
		row[base] += scale
	case AttrTop:
		row[base+1] += scale
	case AttrWidth:
		row[base+2] += scale
	case AttrHeight:
		row[base+3] += scale
	case AttrRight:
		row[base] += scale
		row[base+2] += scale
	case AttrBottom:
		row[base+1] += scale
		row[base+3] += scale
	default:
		return 0, false
	}
	return 0, true
}

// gaussJordan reduces the augmented matrix with partial pivoting
func gaussJordan(m [][]float64, vars int) []float64 {
	values := make([]float64, vars)
	pivotOf := make([]int, vars)
	for i := range pivotOf {
		pivotOf[i] = -1
	}

	pivotRow := 0
	for col := 0; col < vars && pivotRow < len(m); col++ {
		best := pivotRow
		bestAbs := math.Abs(m[pivotRow][col])
		for r := pivotRow + 1; r < len(m); r++ {
			if v := math.Abs(m[r][col]); v > bestAbs {
				best, bestAbs = r, v
			}
		}
		if bestAbs < pivotTolerance {
			continue
		}
		m[pivotRow], m[best] = m[best], m[pivotRow]

		pivot := m[pivotRow][col]
		for k := col; k <= vars; k++ {
			m[pivotRow][k] /= pivot
		}
		for r := range m {
			if r == pivotRow {
				continue
			}
			factor := m[r][col]
			if factor == 0 {
				continue
			}
			for k := col; k <= vars; k++ {
				m[r][k] -= factor * m[pivotRow][k]
			}
		}

		pivotOf[col] = pivotRow
		pivotRow++
	}

	for col, r := range pivotOf {
		if r >= 0 {
			values[col] = m[r][vars]
		}
	}
	return values
}

func round(v float64) int {
	return int(math.Round(v))
}
