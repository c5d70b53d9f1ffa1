package layout

import "github.com/lixenwraith/panes/geom"

// frame binds a component index to the whole rectangle it is given
type frame struct {
	index         int
	width, height int
}

// Frame returns a flexible leaf for the component at index
func Frame(index int) Node {
	return &frame{index: index}
}

func (f *frame) Update(width, height int) {
	f.width, f.height = width, height
}

func (f *frame) Regions(count int) []Slot {
	if f.index < 0 || f.index >= count {
		return nil
	}
	return []Slot{{Component: f.index, Region: geom.New(0, 0, f.width, f.height)}}
}

func (f *frame) DesiredWidth() (int, bool)  { return 0, false }
func (f *frame) DesiredHeight() (int, bool) { return 0, false }

func (f *frame) MinimalSize(count int) (int, int) {
	return 0, 0
}
