package terminal

import (
	"io"
	"os"

	"github.com/lixenwraith/panes/terminal/ansi"
)

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if DisableRawMode cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(ansi.PasteOff)
	w.Write(ansi.CursorShow)
	w.Write(ansi.Reset)
	w.Write(ansi.AutoWrapOn)
	w.Write(ansi.RIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
