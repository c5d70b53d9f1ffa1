package engine

import (
	"io"

	"github.com/lixenwraith/panes/terminal/ansi"
)

// Driver is the terminal collaborator the loop runs against
// Implemented by *terminal.Terminal. Output may be buffered until Flush.
type Driver interface {
	io.Writer

	// EnableRawMode enters raw mode and subscribes onResize to size changes
	// The returned func unsubscribes
	EnableRawMode(onResize func()) (func(), error)
	DisableRawMode() error

	Size() (rows, cols int)

	// Read blocks for input; returns io.EOF at end of stream and nil, nil once stop is closed
	Read(stop <-chan struct{}) ([]byte, error)

	// MoveCursor takes a 1-based position
	MoveCursor(row, col int)
	ShowCursor()
	HideCursor()
	ClearScreen()
	SetStyle(s ansi.Style)
	ResetStyle()
	WriteText(s string)
	Flush() error
}
