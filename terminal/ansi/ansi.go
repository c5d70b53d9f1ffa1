// Package ansi holds the wire-level control sequences written to the terminal.
//
// Writers take a *bufio.Writer and avoid allocation so they can run inside
// the per-cell flush loop.
package ansi

import "bufio"

// Style represents text attributes (bitmask)
type Style uint8

const (
	StyleNone      Style = 0
	StyleBold      Style = 1 << 0
	StyleUnderline Style = 1 << 1
	StyleReverse   Style = 1 << 2
	StyleDim       Style = 1 << 3 // Disabled tint
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	CSI         = []byte("\x1b[")
	Reset       = []byte("\x1b[0m")
	Clear       = []byte("\x1b[2J")
	Home        = []byte("\x1b[H")
	RIS         = []byte("\x1bc") // Reset to Initial State (emergency)
	CursorHide  = []byte("\x1b[?25l")
	CursorShow  = []byte("\x1b[?25h")
	PasteOn     = []byte("\x1b[?2004h")
	PasteOff    = []byte("\x1b[?2004l")
	AutoWrapOn  = []byte("\x1b[?7h")
	AutoWrapOff = []byte("\x1b[?7l")
)

// sgrCodes pairs each style bit with its SGR parameter, in emission order
var sgrCodes = [...]struct {
	style Style
	code  byte
}{
	{StyleBold, '1'},
	{StyleDim, '2'},
	{StyleUnderline, '4'},
	{StyleReverse, '7'},
}

// WriteInt writes a non-negative integer without allocation
func WriteInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// WriteCursorPos writes a cursor positioning sequence, row and col are 1-based
func WriteCursorPos(w *bufio.Writer, row, col int) {
	w.Write(CSI)
	WriteInt(w, row)
	w.WriteByte(';')
	WriteInt(w, col)
	w.WriteByte('H')
}

// WriteStyle writes a single SGR sequence that resets attributes and applies s
func WriteStyle(w *bufio.Writer, s Style) {
	w.Write(CSI)
	w.WriteByte('0')
	for _, c := range sgrCodes {
		if s&c.style != 0 {
			w.WriteByte(';')
			w.WriteByte(c.code)
		}
	}
	w.WriteByte('m')
}
