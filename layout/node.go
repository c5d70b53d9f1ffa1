// Package layout turns a declarative tree of panes into screen regions.
//
// A tree is built once from Frame leaves, Sized wrappers and horizontal or
// vertical Stacks. For each redraw the caller notifies the root of the
// container size with Update and asks for Regions; the only state that
// survives a call is the cached container size of each node.
//
//	root := layout.VStack(0,
//	    layout.Height(3, layout.Frame(0)),
//	    layout.HStack(-1, layout.Frame(1), layout.Width(20, layout.Frame(2))),
//	)
//	root.Update(cols, rows)
//	slots := root.Regions(len(components))
//
// Solver is an alternative strategy behind the same Node interface for
// explicit placement through linear equality constraints.
package layout

import "github.com/lixenwraith/panes/geom"

// Slot is a region assigned to one component index
type Slot struct {
	Component int
	geom.Region
}

// Node is one element of a layout tree
type Node interface {
	// Update notifies the node of its container size
	Update(width, height int)

	// Regions returns one slot per leaf bound to an index below count, relative to the container origin
	Regions(count int) []Slot

	// DesiredWidth returns a fixed width when the node declares one
	DesiredWidth() (int, bool)

	// DesiredHeight returns a fixed height when the node declares one
	DesiredHeight() (int, bool)

	// MinimalSize returns the smallest container that lets every fixed frame reach its size
	MinimalSize(count int) (width, height int)
}
