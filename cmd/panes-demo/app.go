package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/layout"
	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/terminal/ansi"
	"github.com/lixenwraith/panes/widget"
)

// Component indices, in focus order
const (
	paneInput = iota
	paneHeader
	paneLog
	paneLocked
	paneClock
	paneCount
)

const (
	maxHistory  = 100
	lockedWidth = 24
	helpText    = "Tab: next pane  Enter: submit  q: quit"
)

type app struct {
	root       layout.Node
	components []widget.Component

	header  *widget.Label
	field   *widget.Field
	history *widget.Label
	status  *widget.Label
	clock   *clock

	lines    []string
	onChange func()
}

// newApp builds the panes; fixed rows grow with padding so each keeps one line of content
func newApp(useSolver bool, padding int) *app {
	a := &app{
		header:  widget.NewLabel("panes", helpText),
		field:   widget.NewField("input", "> "),
		history: widget.NewLabel("log", ""),
		status:  widget.NewLabel("locked", "type here to ring the bell"),
		clock:   &clock{},
	}
	a.status.IsInteractive = true
	a.status.IsDisabled = true
	a.status.Style = ansi.StyleDim
	a.clock.IsBorderHidden = true
	a.field.OnSubmit = a.submit

	a.components = make([]widget.Component, paneCount)
	a.components[paneInput] = a.field
	a.components[paneHeader] = a.header
	a.components[paneLog] = a.history
	a.components[paneLocked] = a.status
	a.components[paneClock] = a.clock

	rows := rowHeights{line: 3 + 2*padding, clock: 1 + 2*padding}
	if useSolver {
		a.root = solverLayout(rows)
	} else {
		a.root = stackLayout(rows)
	}
	return a
}

// submit appends a line to the log, newest last
func (a *app) submit(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	a.lines = append(a.lines, text)
	if len(a.lines) > maxHistory {
		a.lines = a.lines[len(a.lines)-maxHistory:]
	}
	a.history.Text = strings.Join(a.lines, "\n")
}

// setStatus replaces the locked pane text and requests a redraw
func (a *app) setStatus(text string) {
	a.status.Text = text
	if a.onChange != nil {
		a.onChange()
	}
}

// rowHeights are the fixed heights of the bordered one-line panes and the borderless clock
type rowHeights struct {
	line  int
	clock int
}

// stackLayout
//
//	╭header───────────────╮
//	├input──────┬locked───┤
//	├log────────┤         │
//	╰───────────┴─────────╯
//	clock
func stackLayout(rows rowHeights) layout.Node {
	return layout.VStack(0,
		layout.VStack(-1,
			layout.Height(rows.line, layout.Frame(paneHeader)),
			layout.HStack(-1,
				layout.VStack(-1,
					layout.Height(rows.line, layout.Frame(paneInput)),
					layout.Frame(paneLog),
				),
				layout.Width(lockedWidth, layout.Frame(paneLocked)),
			),
		),
		layout.Height(rows.clock, layout.Frame(paneClock)),
	)
}

// solverLayout places the same panes as stackLayout with equality constraints
func solverLayout(rows rowHeights) layout.Node {
	at := func(w int, attr layout.Attribute) layout.Anchor {
		return layout.Anchor{Widget: w, Attr: attr}
	}
	width := at(layout.Container, layout.AttrWidth)
	height := at(layout.Container, layout.AttrHeight)
	line, bar := float64(rows.line), float64(rows.clock)

	return layout.NewSolver(paneCount,
		// Header spans the top, width left to fill
		layout.Eq(at(paneHeader, layout.AttrLeft), 0),
		layout.Eq(at(paneHeader, layout.AttrTop), 0),
		layout.Eq(at(paneHeader, layout.AttrHeight), line),

		layout.Eq(at(paneInput, layout.AttrLeft), 0),
		layout.Link(at(paneInput, layout.AttrTop), at(paneHeader, layout.AttrBottom), -1),
		layout.Link(at(paneInput, layout.AttrWidth), width, -(lockedWidth - 1)),
		layout.Eq(at(paneInput, layout.AttrHeight), line),

		layout.Eq(at(paneLog, layout.AttrLeft), 0),
		layout.Link(at(paneLog, layout.AttrTop), at(paneInput, layout.AttrBottom), -1),
		layout.Link(at(paneLog, layout.AttrWidth), at(paneInput, layout.AttrWidth), 0),
		layout.Link(at(paneLog, layout.AttrBottom), height, -bar),

		layout.Link(at(paneLocked, layout.AttrLeft), width, -lockedWidth),
		layout.Link(at(paneLocked, layout.AttrTop), at(paneInput, layout.AttrTop), 0),
		layout.Eq(at(paneLocked, layout.AttrWidth), lockedWidth),
		layout.Link(at(paneLocked, layout.AttrBottom), height, -bar),

		layout.Eq(at(paneClock, layout.AttrLeft), 0),
		layout.Link(at(paneClock, layout.AttrTop), height, -bar),
		layout.Eq(at(paneClock, layout.AttrHeight), bar),
	)
}

// clock shows the time elapsed since start, driven by ticks
type clock struct {
	widget.Base
	elapsed time.Duration
	shown   int
}

func (c *clock) Handle(ev input.Event) bool {
	if ev.Kind != input.KindTick {
		return false
	}
	c.elapsed += ev.Delta
	secs := int(c.elapsed / time.Second)
	if secs == c.shown {
		return false
	}
	c.shown = secs
	return true
}

func (c *clock) Render(s *render.Screen, r geom.Region) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	text := fmt.Sprintf("up %02d:%02d", c.shown/60, c.shown%60)
	// Right-aligned, truncated from the left when narrow
	if len(text) > r.Width {
		text = text[len(text)-r.Width:]
	}
	s.SetString(r.Top, r.Left+r.Width-len(text), text, ansi.StyleDim)
}
