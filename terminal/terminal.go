package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/lixenwraith/panes/terminal/ansi"
)

// outputBufferSize holds a full frame of a large terminal
const outputBufferSize = 128 * 1024

// ErrRawMode is returned when raw mode is enabled twice
var ErrRawMode = errors.New("raw mode already enabled")

// Terminal is the driver the event loop talks to
// Output is buffered and reaches the backend only on Flush
type Terminal struct {
	backend Backend
	out     *bufio.Writer

	mu           sync.Mutex
	raw          bool
	cancelResize func()
}

// New wraps a backend
func New(b Backend) *Terminal {
	return &Terminal{
		backend: b,
		out:     bufio.NewWriterSize(backendWriter{b}, outputBufferSize),
	}
}

// EnableRawMode enters raw mode, turns on bracketed paste and subscribes
// onResize to window size changes. The returned func unsubscribes it.
func (t *Terminal) EnableRawMode(onResize func()) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.raw {
		return nil, fmt.Errorf("enable raw mode: %w", ErrRawMode)
	}
	if err := t.backend.Init(); err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	t.raw = true

	t.out.Write(ansi.PasteOn)
	t.out.Write(ansi.AutoWrapOff)
	if err := t.out.Flush(); err != nil {
		// Leave the terminal as found; the writer keeps a failed flush's error
		t.backend.Fini()
		t.raw = false
		t.out.Reset(backendWriter{t.backend})
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}

	cancel := func() {}
	if onResize != nil {
		cancel = t.backend.SetResizeHandler(onResize)
	}
	t.cancelResize = cancel
	return cancel, nil
}

// DisableRawMode turns off bracketed paste and restores the saved mode
// Safe to call when raw mode is not enabled
func (t *Terminal) DisableRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.raw {
		return nil
	}
	t.raw = false

	if t.cancelResize != nil {
		t.cancelResize()
		t.cancelResize = nil
	}

	t.out.Write(ansi.PasteOff)
	t.out.Write(ansi.AutoWrapOn)
	flushErr := t.out.Flush()
	if err := t.backend.Fini(); err != nil {
		return fmt.Errorf("disable raw mode: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("disable raw mode: %w", flushErr)
	}
	return nil
}

// Size returns the window dimensions in cells
func (t *Terminal) Size() (rows, cols int) {
	return t.backend.Size()
}

// Read returns the next chunk of input bytes
func (t *Terminal) Read(stop <-chan struct{}) ([]byte, error) {
	return t.backend.Read(stop)
}

// Write buffers raw output
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// MoveCursor positions the cursor, row and col are 1-based
func (t *Terminal) MoveCursor(row, col int) {
	ansi.WriteCursorPos(t.out, row, col)
}

func (t *Terminal) ShowCursor() {
	t.out.Write(ansi.CursorShow)
}

func (t *Terminal) HideCursor() {
	t.out.Write(ansi.CursorHide)
}

// ClearScreen erases the display and homes the cursor
func (t *Terminal) ClearScreen() {
	t.out.Write(ansi.Clear)
	t.out.Write(ansi.Home)
}

func (t *Terminal) SetStyle(s ansi.Style) {
	ansi.WriteStyle(t.out, s)
}

func (t *Terminal) ResetStyle() {
	t.out.Write(ansi.Reset)
}

func (t *Terminal) WriteText(s string) {
	t.out.WriteString(s)
}

// Flush sends buffered output to the backend
func (t *Terminal) Flush() error {
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// backendWriter adapts Backend to io.Writer
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	return w.b.Write(p)
}

var _ io.Writer = (*Terminal)(nil)
