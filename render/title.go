package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/terminal/ansi"
)

// titlePlaceholder marks a focused interactive component that has no title
const titlePlaceholder = "*"

// DrawTitle writes a component title one cell inside the top border of r.
// A focused interactive component is shown as [title], using the placeholder
// when untitled. Text is truncated by display width to the border interior.
func DrawTitle(s *Screen, r geom.Region, title string, interactive, focused bool, style ansi.Style) {
	avail := r.Width - 2
	if avail <= 0 || r.Height < 1 {
		return
	}

	marked := interactive && focused
	if title == "" {
		if !marked {
			return
		}
		title = titlePlaceholder
	}

	// Brackets are dropped when they would leave no room for the text
	if marked && avail >= 3 {
		title = "[" + runewidth.Truncate(title, avail-2, "") + "]"
	} else {
		title = runewidth.Truncate(title, avail, "")
	}
	s.SetString(r.Top, r.Left+1, title, style)
}
