// Package widget defines the capability contract the event loop drives and a
// couple of small components built on it.
package widget

import (
	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/render"
)

// Component is anything the event loop can lay out, draw and feed input to
type Component interface {
	// Render draws into the content region, which excludes border and padding
	Render(s *render.Screen, content geom.Region)
	// Handle receives a focused event or a tick and reports whether it was consumed
	Handle(ev input.Event) bool

	Title() string
	Interactive() bool
	Disabled() bool
	BorderHidden() bool
}

// Cursorer is implemented by components that place the hardware cursor
// The position is absolute and must lie inside content to be shown
type Cursorer interface {
	CursorPosition(content geom.Region) (row, col int, ok bool)
}

// Base carries the per-instance flags of a component as plain fields
// Embed it to satisfy the flag half of Component
type Base struct {
	Heading        string
	IsInteractive  bool
	IsDisabled     bool
	IsBorderHidden bool
}

func (b *Base) Title() string      { return b.Heading }
func (b *Base) Interactive() bool  { return b.IsInteractive }
func (b *Base) Disabled() bool     { return b.IsDisabled }
func (b *Base) BorderHidden() bool { return b.IsBorderHidden }
