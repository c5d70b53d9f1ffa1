// Package engine runs the event loop: it owns focus, paste state and the
// screen, and turns input, ticks and resizes into coalesced redraws.
//
// Run is the single writer of all loop state. The input reader and the
// ticker run in an errgroup and only send messages; the resize callback
// performs a non-blocking send. No locks guard the screen or the focus index.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/layout"
	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/widget"
)

// ErrAlreadyRun is returned by a second call to Run
var ErrAlreadyRun = errors.New("loop already run")

// eventBuffer lets the reader decode a whole chunk ahead of dispatch
const eventBuffer = 64

// Loop drives a set of components laid out by one layout tree
type Loop struct {
	driver     Driver
	root       layout.Node
	components []widget.Component
	cfg        Config
	log        *slog.Logger

	started    atomic.Bool
	invalidate chan struct{}
	focusView  atomic.Int64

	// Owned by the dispatch goroutine
	screen    *render.Screen
	focus     int
	pasting   bool
	dirty     bool
	intervals chan time.Duration
	debounce  *time.Timer
	settle    <-chan time.Time
}

// New creates a loop; components are indexed by the leaves of root
func New(driver Driver, root layout.Node, components []widget.Component, cfg Config) *Loop {
	cfg = cfg.withDefaults()
	return &Loop{
		driver:     driver,
		root:       root,
		components: components,
		cfg:        cfg,
		log:        cfg.Logger,
		invalidate: make(chan struct{}, 1),
		intervals:  make(chan time.Duration, 1),
		screen:     render.NewScreen(0, 0),
	}
}

// Invalidate requests a redraw; safe from any goroutine
// Requests made while one is pending collapse into it
func (l *Loop) Invalidate() {
	select {
	case l.invalidate <- struct{}{}:
	default:
	}
}

// Focus returns the index of the focused component
func (l *Loop) Focus() int {
	return int(l.focusView.Load())
}

// Run enters raw mode and dispatches until quit, end of input, a read
// failure or ctx cancellation. The terminal is restored on every exit path.
// A loop runs once; later calls return ErrAlreadyRun.
func (l *Loop) Run(ctx context.Context) (err error) {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	resizes := make(chan struct{}, 1)
	unsubscribe, err := l.driver.EnableRawMode(func() { notify(resizes) })
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if unsubscribe != nil {
			unsubscribe()
		}
		l.driver.ResetStyle()
		l.driver.ShowCursor()
		l.driver.Flush()
		if derr := l.driver.DisableRawMode(); derr != nil && err == nil {
			err = fmt.Errorf("disable raw mode: %w", derr)
		}
	}()

	l.log.Info("loop started", "components", len(l.components))
	defer l.log.Info("loop stopped")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	events := make(chan input.Event, eventBuffer)
	ticks := make(chan time.Duration, 1)
	g.Go(guard("input reader", func() error { return l.readInput(gctx, events) }))
	g.Go(guard("ticker", func() error { return l.runTicker(gctx, ticks) }))

	err = l.dispatch(gctx, events, ticks, resizes)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		l.log.Error("loop failed", "err", err)
	}
	return err
}

// notify performs a non-blocking send, replacing any pending value
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
