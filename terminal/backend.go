package terminal

import "errors"

// ErrNotTerminal is returned when the backend input is not a terminal
var ErrNotTerminal = errors.New("not a terminal")

// Backend names accepted by NewBackend
const (
	BackendUnix = "unix"
	BackendTTY  = "tty"
)

// Backend abstracts platform-specific terminal operations
type Backend interface {
	// Init enters raw mode
	Init() error
	// Fini restores the mode saved by Init
	Fini() error

	// Size returns the window dimensions in cells
	Size() (rows, cols int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) (int, error)

	// Read blocks until input is available, the stop channel is closed, or an error occurs
	// Returns io.EOF at end of input and nil, nil when stopped
	Read(stop <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback run on every window size change
	// The returned func unregisters it
	SetResizeHandler(handler func()) (cancel func())
}

// fallbackRows and fallbackCols are reported when the size query fails
const (
	fallbackRows = 24
	fallbackCols = 80
)
