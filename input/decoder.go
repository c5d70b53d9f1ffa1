// Package input decodes raw terminal bytes into discrete input events.
//
// The Decoder is an explicit state machine fed one byte at a time. It never
// blocks and never fails: malformed sequences resolve to KindUnknown and
// decoding continues with the next byte.
package input

import "unicode/utf8"

// maxCSILen bounds the parameter bytes collected after ESC [
const maxCSILen = 32

const (
	byteETX = 0x03 // Ctrl+C
	byteEOT = 0x04 // Ctrl+D
	byteBS  = 0x08
	byteHT  = 0x09
	byteLF  = 0x0a
	byteCR  = 0x0d
	byteESC = 0x1b
	byteDEL = 0x7f
)

type state uint8

const (
	stateNormal state = iota
	stateEscape
	stateCSI
	stateSS3
)

// arrowKeys maps CSI/SS3 final bytes to cursor keys
var arrowKeys = map[byte]Kind{
	'A': KindUp,
	'B': KindDown,
	'C': KindRight,
	'D': KindLeft,
}

// Decoder turns a byte stream into events
// The zero value is ready to use
type Decoder struct {
	state state
	csi   []byte

	// Pending multi-byte UTF-8 sequence
	utf8Buf  [utf8.UTFMax]byte
	utf8Have int
	utf8Need int

	paste bool
}

// NewDecoder returns a decoder in the normal state
func NewDecoder() *Decoder {
	return &Decoder{csi: make([]byte, 0, maxCSILen)}
}

// Pasting reports whether a bracketed paste is in progress
func (d *Decoder) Pasting() bool {
	return d.paste
}

// Consume advances the state machine by one byte
// ok is false when the byte produced no event
func (d *Decoder) Consume(b byte) (ev Event, ok bool) {
	switch d.state {
	case stateEscape:
		return d.consumeEscape(b)
	case stateCSI:
		return d.consumeCSI(b)
	case stateSS3:
		d.state = stateNormal
		if k, found := arrowKeys[b]; found {
			return Event{Kind: k}, true
		}
		return Event{Kind: KindUnknown}, true
	}

	if d.utf8Need > 0 {
		return d.consumeContinuation(b)
	}

	if b == byteESC {
		d.state = stateEscape
		return Event{}, false
	}

	switch b {
	case byteETX:
		return Event{Kind: KindInterrupt}, true
	case byteEOT:
		return Event{Kind: KindSubmit}, true
	case byteCR, byteLF:
		return Event{Kind: KindEnter}, true
	case byteDEL, byteBS:
		return Event{Kind: KindBackspace}, true
	case byteHT:
		if d.paste {
			return Char('\t'), true
		}
		return Event{Kind: KindTab}, true
	}

	if b >= 0x80 {
		n := utf8SeqLen(b)
		if n == 0 {
			return Event{Kind: KindUnknown}, true
		}
		d.utf8Buf[0] = b
		d.utf8Have = 1
		d.utf8Need = n
		return Event{}, false
	}

	if b >= 0x20 && b < 0x7f {
		return Char(rune(b)), true
	}
	return Event{Kind: KindUnknown}, true
}

// Feed consumes a chunk and appends the produced events to dst
func (d *Decoder) Feed(p []byte, dst []Event) []Event {
	for _, b := range p {
		if ev, ok := d.Consume(b); ok {
			dst = append(dst, ev)
		}
	}
	return dst
}

// Flush reports a partial sequence at end of stream as KindUnknown and resets the decoder
// A clean decoder yields nothing
func (d *Decoder) Flush() (Event, bool) {
	dirty := d.state != stateNormal || d.utf8Need > 0
	d.reset()
	if dirty {
		return Event{Kind: KindUnknown}, true
	}
	return Event{}, false
}

// consumeContinuation handles the bytes following a UTF-8 lead byte
// An invalid continuation aborts the sequence without reprocessing the byte
func (d *Decoder) consumeContinuation(b byte) (Event, bool) {
	if b&0xc0 != 0x80 {
		d.utf8Have, d.utf8Need = 0, 0
		return Event{Kind: KindUnknown}, true
	}

	d.utf8Buf[d.utf8Have] = b
	d.utf8Have++
	if d.utf8Have < d.utf8Need {
		return Event{}, false
	}

	r, size := utf8.DecodeRune(d.utf8Buf[:d.utf8Have])
	valid := size == d.utf8Have && !(r == utf8.RuneError && size <= 1)
	d.utf8Have, d.utf8Need = 0, 0
	if !valid {
		return Event{Kind: KindUnknown}, true
	}
	return Char(r), true
}

// consumeEscape dispatches the byte after ESC
// Unrecognized bytes are consumed together with the ESC, so Alt-prefixed input is dropped
func (d *Decoder) consumeEscape(b byte) (Event, bool) {
	switch b {
	case '[':
		d.state = stateCSI
		d.csi = d.csi[:0]
		return Event{}, false
	case 'O':
		d.state = stateSS3
		return Event{}, false
	}
	d.state = stateNormal
	return Event{Kind: KindUnknown}, true
}

// consumeCSI collects parameter bytes until a final byte in 0x40-0x7E
func (d *Decoder) consumeCSI(b byte) (Event, bool) {
	if b < 0x40 || b > 0x7e {
		if len(d.csi) >= maxCSILen {
			d.reset()
			return Event{Kind: KindUnknown}, true
		}
		d.csi = append(d.csi, b)
		return Event{}, false
	}

	body := string(d.csi)
	d.state = stateNormal
	d.csi = d.csi[:0]

	if b == '~' {
		switch body {
		case "200":
			d.paste = true
			return Event{Kind: KindPasteStart}, true
		case "201":
			d.paste = false
			return Event{Kind: KindPasteEnd}, true
		}
	}

	// Parameters are ignored so modified arrows (ESC [ 1 ; 5 A) degrade to the base key
	if k, found := arrowKeys[b]; found {
		return Event{Kind: k}, true
	}
	return Event{}, false
}

func (d *Decoder) reset() {
	d.state = stateNormal
	d.csi = d.csi[:0]
	d.utf8Have, d.utf8Need = 0, 0
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0
}
