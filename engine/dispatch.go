package engine

import (
	"context"
	"time"

	"github.com/lixenwraith/panes/input"
)

// dispatch is the single writer of loop state. Each wake-up handles one
// message, drains whatever else is already queued, then redraws at most once.
func (l *Loop) dispatch(ctx context.Context, events <-chan input.Event, ticks <-chan time.Duration, resizes <-chan struct{}) error {
	defer func() {
		if l.debounce != nil {
			l.debounce.Stop()
		}
	}()

	rows, cols := l.driver.Size()
	l.screen.Resize(rows, cols)
	l.driver.ClearScreen()
	if err := l.redraw(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if l.handleEvent(ev) {
				return nil
			}
		case d := <-ticks:
			l.handleTick(d)
		case <-resizes:
			l.scheduleResize()
		case <-l.settle:
			l.applyResize()
		case <-l.invalidate:
			l.dirty = true
		}

		if stop := l.drain(events, ticks, resizes); stop {
			return nil
		}

		if l.dirty && !l.pasting {
			if err := l.redraw(); err != nil {
				return err
			}
		}
	}
}

// drain handles every message that is ready without blocking
func (l *Loop) drain(events <-chan input.Event, ticks <-chan time.Duration, resizes <-chan struct{}) bool {
	for {
		select {
		case ev := <-events:
			if l.handleEvent(ev) {
				return true
			}
		case d := <-ticks:
			l.handleTick(d)
		case <-resizes:
			l.scheduleResize()
		case <-l.settle:
			l.applyResize()
		case <-l.invalidate:
			l.dirty = true
		default:
			return false
		}
	}
}

// handleEvent routes one input event and reports whether the loop should stop
func (l *Loop) handleEvent(ev input.Event) bool {
	l.cfg.Metrics.Event(ev.Kind.String())

	switch ev.Kind {
	case input.KindInterrupt, input.KindEOF:
		l.log.Debug("stop requested", "event", ev)
		return true
	case input.KindChar:
		if !l.pasting && ev.Rune == l.cfg.QuitKey {
			l.log.Debug("stop requested", "event", ev)
			return true
		}
	case input.KindTab:
		l.focusNext()
		return false
	case input.KindPasteStart:
		l.setPasting(true)
		return false
	case input.KindPasteEnd:
		l.setPasting(false)
		return false
	}

	l.deliver(ev)
	return false
}

// deliver hands ev to the focused component
func (l *Loop) deliver(ev input.Event) {
	if len(l.components) == 0 {
		return
	}
	c := l.components[l.focus]
	if c.Disabled() {
		l.cfg.Metrics.Unhandled()
		l.log.Debug("unhandled event", "event", ev, "component", l.focus)
		if l.cfg.Unhandled != nil {
			l.cfg.Unhandled(ev)
		}
		return
	}
	if c.Handle(ev) {
		l.dirty = true
	}
}

// focusNext moves focus to the next interactive component, wrapping
func (l *Loop) focusNext() {
	n := len(l.components)
	for i := 1; i <= n; i++ {
		j := (l.focus + i) % n
		if l.components[j].Interactive() {
			if j != l.focus {
				l.focus = j
				l.focusView.Store(int64(j))
				l.dirty = true
			}
			return
		}
	}
}

func (l *Loop) setPasting(on bool) {
	if l.pasting == on {
		return
	}
	l.pasting = on

	interval := l.cfg.TickInterval
	if on {
		interval *= 2
	} else {
		// Content that arrived during the paste is drawn now
		l.dirty = true
	}
	select {
	case <-l.intervals:
	default:
	}
	l.intervals <- interval
}

// handleTick delivers a tick to every component
func (l *Loop) handleTick(d time.Duration) {
	l.cfg.Metrics.Tick()
	ev := input.Tick(d)
	for _, c := range l.components {
		if c.Handle(ev) {
			l.dirty = true
		}
	}
}

// scheduleResize restarts the debounce window
func (l *Loop) scheduleResize() {
	if l.debounce == nil {
		l.debounce = time.NewTimer(l.cfg.ResizeDebounce)
	} else {
		l.debounce.Reset(l.cfg.ResizeDebounce)
	}
	l.settle = l.debounce.C
}

// applyResize adopts the settled terminal size
func (l *Loop) applyResize() {
	l.settle = nil
	rows, cols := l.driver.Size()
	l.screen.Resize(rows, cols)
	l.driver.ClearScreen()
	l.dirty = true

	l.cfg.Metrics.Resize()
	l.log.Debug("resize settled", "rows", rows, "cols", cols)
}
