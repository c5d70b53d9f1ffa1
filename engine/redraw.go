package engine

import (
	"fmt"
	"time"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/layout"
	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/terminal/ansi"
	"github.com/lixenwraith/panes/widget"
)

// redraw lays out, renders and flushes one frame
func (l *Loop) redraw() error {
	l.dirty = false
	start := time.Now()

	l.driver.HideCursor()
	l.screen.Clear()

	rows, cols := l.screen.Size()
	l.root.Update(cols, rows)
	slots := l.root.Regions(len(l.components))

	if msg, small := l.tooSmall(rows, cols, slots); small {
		l.screen.SetString(0, 0, msg, ansi.StyleNone)
		n, err := l.flush(nil)
		l.cfg.Metrics.TooSmall()
		l.cfg.Metrics.Redraw(time.Since(start), n)
		l.log.Debug("terminal too small", "rows", rows, "cols", cols)
		return err
	}

	mask := render.NewBorderMask(rows, cols)
	for _, s := range slots {
		c := l.components[s.Component]
		if !isDivider(c, s.Region) {
			c.Render(l.screen, l.content(c, s.Region))
		}
		if !c.BorderHidden() {
			mask.Add(s.Region, c.Disabled())
		}
	}
	mask.Apply(l.screen, ansi.StyleNone)

	for _, s := range slots {
		c := l.components[s.Component]
		if c.BorderHidden() {
			continue
		}
		focused := s.Component == l.focus
		style := ansi.StyleNone
		switch {
		case c.Disabled():
			style = ansi.StyleDim
		case focused && c.Interactive():
			style = ansi.StyleBold
		}
		render.DrawTitle(l.screen, s.Region, c.Title(), c.Interactive(), focused, style)
	}

	n, err := l.flush(slots)
	l.cfg.Metrics.Redraw(time.Since(start), n)
	return err
}

// flush writes the frame, places the cursor and flushes the driver
func (l *Loop) flush(slots []layout.Slot) (int, error) {
	n, err := l.screen.Flush(l.driver)
	if err != nil {
		return n, fmt.Errorf("write frame: %w", err)
	}
	l.placeCursor(slots)
	if err := l.driver.Flush(); err != nil {
		return n, fmt.Errorf("write frame: %w", err)
	}
	return n, nil
}

// placeCursor shows the cursor where the focused component asks for it
// The cursor stays hidden when the position falls outside the content region
func (l *Loop) placeCursor(slots []layout.Slot) {
	if len(l.components) == 0 {
		return
	}
	c := l.components[l.focus]
	cur, ok := c.(widget.Cursorer)
	if !ok {
		return
	}

	for _, s := range slots {
		if s.Component != l.focus {
			continue
		}
		content := l.content(c, s.Region)
		row, col, ok := cur.CursorPosition(content)
		if ok && content.Contains(row, col) {
			l.driver.MoveCursor(row+1, col+1)
			l.driver.ShowCursor()
		}
		return
	}
}

// content is the region a component draws into: inside the border, then padding
func (l *Loop) content(c widget.Component, r geom.Region) geom.Region {
	inset := l.cfg.Padding
	if !c.BorderHidden() {
		inset++
	}
	return r.Inset(inset)
}

// tooSmall reports whether the frame cannot be drawn and the diagnostic to show instead
func (l *Loop) tooSmall(rows, cols int, slots []layout.Slot) (string, bool) {
	minW, minH := l.root.MinimalSize(len(l.components))
	if cols < minW || rows < minH {
		return fmt.Sprintf("terminal too small: need %dx%d, have %dx%d", minW, minH, cols, rows), true
	}
	for _, s := range slots {
		c := l.components[s.Component]
		if isDivider(c, s.Region) {
			continue
		}
		if r := l.content(c, s.Region); r.Width <= 0 || r.Height <= 0 {
			return fmt.Sprintf("terminal too small: %dx%d", cols, rows), true
		}
	}
	return "", false
}

// isDivider reports a bordered one column region, drawn as a vertical rule only
func isDivider(c widget.Component, r geom.Region) bool {
	return !c.BorderHidden() && r.Width == 1 && r.Height > 1
}
