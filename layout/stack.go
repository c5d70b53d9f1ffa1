package layout

import "github.com/lixenwraith/panes/geom"

// Axis selects the direction children are laid out along
type Axis uint8

const (
	Horizontal Axis = iota // Children side by side, sharing width
	Vertical               // Children stacked, sharing height
)

// Stack lays out children along one axis separated by a fixed spacing
// Negative spacing overlaps neighbours so their borders collapse into one edge
type Stack struct {
	Axis     Axis
	Spacing  int
	Children []Node

	width, height int
}

// HStack creates a horizontal stack
func HStack(spacing int, children ...Node) *Stack {
	return &Stack{Axis: Horizontal, Spacing: spacing, Children: children}
}

// VStack creates a vertical stack
func VStack(spacing int, children ...Node) *Stack {
	return &Stack{Axis: Vertical, Spacing: spacing, Children: children}
}

// Update caches the container size
func (s *Stack) Update(width, height int) {
	s.width, s.height = width, height
}

// Regions resolves every child's rectangle, then collects their slots offset into the stack's space
func (s *Stack) Regions(count int) []Slot {
	rects := s.childRects()

	var slots []Slot
	for i, child := range s.Children {
		r := rects[i]
		child.Update(r.Width, r.Height)
		for _, slot := range child.Regions(count) {
			slot.Region = slot.Region.Offset(r.Top, r.Left)
			slots = append(slots, slot)
		}
	}
	return slots
}

// DesiredWidth is never fixed, wrap the stack in Width to fix it
func (s *Stack) DesiredWidth() (int, bool) { return 0, false }

// DesiredHeight is never fixed, wrap the stack in Height to fix it
func (s *Stack) DesiredHeight() (int, bool) { return 0, false }

// MinimalSize sums children along the axis with spacing and takes the maximum across it
func (s *Stack) MinimalSize(count int) (int, int) {
	main, cross := 0, 0
	for _, child := range s.Children {
		w, h := child.MinimalSize(count)
		if s.Axis == Horizontal {
			main += w
			cross = max(cross, h)
		} else {
			main += h
			cross = max(cross, w)
		}
	}
	if n := len(s.Children); n > 1 {
		main += s.Spacing * (n - 1)
	}
	if main < 0 {
		main = 0
	}

	if s.Axis == Horizontal {
		return main, cross
	}
	return cross, main
}

// childRects computes each child's outer rectangle in the stack's coordinate space
func (s *Stack) childRects() []geom.Region {
	n := len(s.Children)
	rects := make([]geom.Region, n)
	if n == 0 {
		return rects
	}

	mainTotal, crossTotal := s.width, s.height
	if s.Axis == Vertical {
		mainTotal, crossTotal = s.height, s.width
	}

	sizes := make([]int, n)
	fixed := make([]bool, n)
	fixedSum := 0
	flexCount := 0
	lastFlex := -1
	for i, child := range s.Children {
		if size, ok := s.childDesired(child); ok {
			sizes[i] = size
			fixed[i] = true
			fixedSum += size
			continue
		}
		flexCount++
		lastFlex = i
	}

	share := mainTotal - s.Spacing*(n-1) - fixedSum
	if share < 0 {
		share = 0
	}

	// Remainder of the division goes one cell at a time to the leading flexible children,
	// and the last flexible child takes whatever is left so the trailing edge is exact
	if flexCount > 0 {
		base := share / flexCount
		extra := share % flexCount
		allocated := 0
		seen := 0
		for i := range s.Children {
			if fixed[i] {
				continue
			}
			if i == lastFlex {
				sizes[i] = share - allocated
				break
			}
			size := base
			if seen < extra {
				size++
			}
			sizes[i] = size
			allocated += size
			seen++
		}
	}

	offset := 0
	for i := range s.Children {
		if s.Axis == Horizontal {
			rects[i] = geom.New(0, offset, sizes[i], crossTotal)
		} else {
			rects[i] = geom.New(offset, 0, crossTotal, sizes[i])
		}
		offset += sizes[i] + s.Spacing
	}
	return rects
}

func (s *Stack) childDesired(child Node) (int, bool) {
	if s.Axis == Horizontal {
		return child.DesiredWidth()
	}
	return child.DesiredHeight()
}
