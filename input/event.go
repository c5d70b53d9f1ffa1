package input

import (
	"fmt"
	"time"
)

// Kind distinguishes input event categories
type Kind uint8

const (
	KindUnknown Kind = iota
	KindChar         // Printable character (check Event.Rune)
	KindEnter
	KindBackspace
	KindTab
	KindSubmit // Ctrl+D
	KindUp
	KindDown
	KindRight
	KindLeft
	KindInterrupt // Ctrl+C
	KindEOF
	KindPasteStart
	KindPasteEnd
	KindTick // Periodic tick (check Event.Delta)
)

var kindNames = [...]string{
	KindUnknown:    "Unknown",
	KindChar:       "Char",
	KindEnter:      "Enter",
	KindBackspace:  "Backspace",
	KindTab:        "Tab",
	KindSubmit:     "Submit",
	KindUp:         "Up",
	KindDown:       "Down",
	KindRight:      "Right",
	KindLeft:       "Left",
	KindInterrupt:  "Interrupt",
	KindEOF:        "EOF",
	KindPasteStart: "PasteStart",
	KindPasteEnd:   "PasteEnd",
	KindTick:       "Tick",
}

// String returns the kind name
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Event is a decoded input event
type Event struct {
	Kind  Kind
	Rune  rune          // For KindChar
	Delta time.Duration // For KindTick, time since the previous tick
}

// Char returns a character event
func Char(r rune) Event {
	return Event{Kind: KindChar, Rune: r}
}

// Tick returns a tick event carrying the elapsed time since the previous tick
func Tick(delta time.Duration) Event {
	return Event{Kind: KindTick, Delta: delta}
}

// String renders the event for logs
func (e Event) String() string {
	switch e.Kind {
	case KindChar:
		if e.Rune >= 0x20 && e.Rune < 0x7f {
			return fmt.Sprintf("Char('%c')", e.Rune)
		}
		return fmt.Sprintf("Char(U+%04X)", e.Rune)
	case KindTick:
		return fmt.Sprintf("Tick(%s)", e.Delta)
	}
	return e.Kind.String()
}
