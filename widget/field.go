package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/terminal/ansi"
)

// Field is a single-line text input with a movable cursor
// Enter or Submit passes the text to OnSubmit and clears the field
type Field struct {
	Base
	Prompt   string
	OnSubmit func(text string)

	text   []rune
	cursor int
}

// NewField creates an interactive field
func NewField(title, prompt string) *Field {
	return &Field{
		Base:   Base{Heading: title, IsInteractive: true},
		Prompt: prompt,
	}
}

// Text returns the current contents
func (f *Field) Text() string { return string(f.text) }

// SetText replaces the contents and moves the cursor to the end
func (f *Field) SetText(s string) {
	f.text = []rune(s)
	f.cursor = len(f.text)
}

func (f *Field) Handle(ev input.Event) bool {
	switch ev.Kind {
	case input.KindChar:
		f.text = append(f.text, 0)
		copy(f.text[f.cursor+1:], f.text[f.cursor:])
		f.text[f.cursor] = ev.Rune
		f.cursor++
	case input.KindBackspace:
		if f.cursor == 0 {
			return false
		}
		f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
		f.cursor--
	case input.KindLeft:
		if f.cursor == 0 {
			return false
		}
		f.cursor--
	case input.KindRight:
		if f.cursor == len(f.text) {
			return false
		}
		f.cursor++
	case input.KindEnter, input.KindSubmit:
		text := string(f.text)
		f.text = f.text[:0]
		f.cursor = 0
		if f.OnSubmit != nil {
			f.OnSubmit(text)
		}
	default:
		return false
	}
	return true
}

func (f *Field) Render(s *render.Screen, r geom.Region) {
	if r.Empty() {
		return
	}
	used := writeClipped(s, r.Top, r.Left, r.Width, f.Prompt, ansi.StyleBold)
	avail := r.Width - used
	if avail <= 0 {
		return
	}
	start := f.scroll(avail)
	writeClipped(s, r.Top, r.Left+used, avail, string(f.text[start:]), ansi.StyleNone)
}

// CursorPosition places the cursor after the character it sits behind
func (f *Field) CursorPosition(r geom.Region) (int, int, bool) {
	promptW := runewidth.StringWidth(f.Prompt)
	avail := r.Width - promptW
	if avail <= 0 || r.Height <= 0 {
		return 0, 0, false
	}
	start := f.scroll(avail)
	col := r.Left + promptW + runewidth.StringWidth(string(f.text[start:f.cursor]))
	return r.Top, col, true
}

// scroll returns the first visible rune so the cursor fits in avail columns
func (f *Field) scroll(avail int) int {
	start := 0
	for start < f.cursor && runewidth.StringWidth(string(f.text[start:f.cursor])) > avail-1 {
		start++
	}
	return start
}
