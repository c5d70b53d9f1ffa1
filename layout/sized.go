package layout

// sized overrides the desired size of its child
// The child's own region computation is untouched, only the parent's allocation changes
type sized struct {
	child     Node
	width     int
	height    int
	hasWidth  bool
	hasHeight bool
}

// Width fixes the width of child inside a horizontal stack
func Width(n int, child Node) Node {
	return &sized{child: child, width: clampSize(n), hasWidth: true}
}

// Height fixes the height of child inside a vertical stack
func Height(n int, child Node) Node {
	return &sized{child: child, height: clampSize(n), hasHeight: true}
}

// Fixed fixes both dimensions of child
func Fixed(width, height int, child Node) Node {
	return &sized{
		child:     child,
		width:     clampSize(width),
		height:    clampSize(height),
		hasWidth:  true,
		hasHeight: true,
	}
}

func (s *sized) Update(width, height int) {
	s.child.Update(width, height)
}

func (s *sized) Regions(count int) []Slot {
	return s.child.Regions(count)
}

func (s *sized) DesiredWidth() (int, bool) {
	if s.hasWidth {
		return s.width, true
	}
	return s.child.DesiredWidth()
}

func (s *sized) DesiredHeight() (int, bool) {
	if s.hasHeight {
		return s.height, true
	}
	return s.child.DesiredHeight()
}

func (s *sized) MinimalSize(count int) (int, int) {
	w, h := s.child.MinimalSize(count)
	if s.hasWidth {
		w = max(w, s.width)
	}
	if s.hasHeight {
		h = max(h, s.height)
	}
	return w, h
}

func clampSize(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
