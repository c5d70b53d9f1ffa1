package widget

import (
	"strings"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/terminal/ansi"
)

// Label displays static text, one line per row, clipped to its region
type Label struct {
	Base
	Text  string
	Style ansi.Style
}

// NewLabel creates a non-interactive label
func NewLabel(title, text string) *Label {
	return &Label{Base: Base{Heading: title}, Text: text}
}

func (l *Label) Render(s *render.Screen, r geom.Region) {
	lines := strings.Split(l.Text, "\n")
	for i := 0; i < len(lines) && i < r.Height; i++ {
		writeClipped(s, r.Top+i, r.Left, r.Width, lines[i], l.Style)
	}
}

// Handle consumes nothing
func (l *Label) Handle(input.Event) bool { return false }
