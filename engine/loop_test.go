package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/layout"
	"github.com/lixenwraith/panes/metrics"
	"github.com/lixenwraith/panes/widget"
)

func TestFocusCycling(t *testing.T) {
	d := newFakeDriver(10, 30)
	comps := []widget.Component{widget.NewLabel("info", "static"), newProbe(true), newProbe(true)}
	l := New(d, frames(3), comps, Config{})
	r := start(t, l)

	require.Equal(t, 0, l.Focus())
	for _, want := range []int{1, 2, 1} {
		d.send("\t")
		require.Eventually(t, func() bool { return l.Focus() == want }, waitFor, tick)
	}

	d.send("q")
	require.NoError(t, r.wait(t))

	d.mu.Lock()
	defer d.mu.Unlock()
	require.False(t, d.rawOn)
	require.True(t, d.unsubscribed)
	require.Equal(t, 1, d.disables)
	require.True(t, d.cursorShown)
}

func TestFocusNextWithoutInteractive(t *testing.T) {
	l := New(newFakeDriver(5, 5), frames(2), []widget.Component{newProbe(false), newProbe(false)}, Config{})
	l.focusNext()
	require.Equal(t, 0, l.focus)
	require.False(t, l.dirty)
}

func TestStopEvents(t *testing.T) {
	tests := []struct {
		name string
		feed func(d *fakeDriver)
	}{
		{"quit key", func(d *fakeDriver) { d.send("q") }},
		{"interrupt", func(d *fakeDriver) { d.send("\x03") }},
		{"end of input", func(d *fakeDriver) { close(d.in) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver(5, 20)
			r := start(t, New(d, frames(1), []widget.Component{newProbe(true)}, Config{}))
			tt.feed(d)
			require.NoError(t, r.wait(t))
		})
	}
}

func TestCustomQuitKey(t *testing.T) {
	d := newFakeDriver(5, 20)
	p := newProbe(true)
	r := start(t, New(d, frames(1), []widget.Component{p}, Config{QuitKey: 'x'}))

	d.send("q")
	require.Eventually(t, func() bool { return len(p.received()) == 1 }, waitFor, tick)
	require.False(t, r.stopped())

	d.send("x")
	require.NoError(t, r.wait(t))
}

func TestPasteDeliversQuitLiterally(t *testing.T) {
	d := newFakeDriver(5, 20)
	p := newProbe(true)
	r := start(t, New(d, frames(1), []widget.Component{p}, Config{}))

	d.send("\x1b[200~q\tx\x1b[201~")
	require.Eventually(t, func() bool { return len(p.received()) == 3 }, waitFor, tick)
	require.Equal(t, []input.Event{input.Char('q'), input.Char('\t'), input.Char('x')}, p.received())
	require.False(t, r.stopped())

	d.send("q")
	require.NoError(t, r.wait(t))
}

func TestDisabledComponentUnhandled(t *testing.T) {
	var mu sync.Mutex
	var unhandled []input.Event

	d := newFakeDriver(5, 20)
	p := newProbe(true)
	p.IsDisabled = true
	cfg := Config{Unhandled: func(ev input.Event) {
		mu.Lock()
		unhandled = append(unhandled, ev)
		mu.Unlock()
	}}
	r := start(t, New(d, frames(1), []widget.Component{p}, cfg))

	d.send("x")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(unhandled) == 1
	}, waitFor, tick)
	require.Empty(t, p.received())

	mu.Lock()
	require.Equal(t, input.Char('x'), unhandled[0])
	mu.Unlock()

	d.send("\x03")
	require.NoError(t, r.wait(t))
}

func TestReadErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	d := newFakeDriver(5, 20)
	r := start(t, New(d, frames(1), []widget.Component{newProbe(true)}, Config{}))

	d.readErr <- boom
	err := r.wait(t)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "read input")

	d.mu.Lock()
	defer d.mu.Unlock()
	require.False(t, d.rawOn)
	require.Equal(t, 1, d.disables)
}

func TestEnableRawModeFailure(t *testing.T) {
	noTTY := errors.New("no tty")
	d := newFakeDriver(5, 20)
	d.enableErr = noTTY

	err := New(d, frames(1), nil, Config{}).Run(context.Background())
	require.ErrorIs(t, err, noTTY)
	require.ErrorContains(t, err, "enable raw mode")
	require.Zero(t, d.disables)
}

func TestRunOnce(t *testing.T) {
	d := newFakeDriver(5, 20)
	l := New(d, frames(1), []widget.Component{newProbe(true)}, Config{})
	r := start(t, l)
	d.send("q")
	require.NoError(t, r.wait(t))

	require.ErrorIs(t, l.Run(context.Background()), ErrAlreadyRun)
}

func TestContextCancelStops(t *testing.T) {
	d := newFakeDriver(5, 20)
	l := New(d, frames(1), []widget.Component{newProbe(true)}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return d.clearCount() == 1 }, waitFor, tick)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("loop ignored cancellation")
	}
}

func TestTicksReachEveryComponent(t *testing.T) {
	d := newFakeDriver(5, 20)
	a, b := newProbe(true), newProbe(false)
	start(t, New(d, frames(2), []widget.Component{a, b}, Config{TickInterval: 5 * time.Millisecond}))

	require.Eventually(t, func() bool { return a.tickCount() >= 3 && b.tickCount() >= 3 }, waitFor, tick)
}

func TestTickCarriesElapsedAndSlowsWhilePasting(t *testing.T) {
	const interval = 20 * time.Millisecond
	l := New(newFakeDriver(5, 20), frames(1), []widget.Component{newProbe(true)}, Config{TickInterval: interval})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks := make(chan time.Duration)
	done := make(chan error, 1)
	go func() { done <- l.runTicker(ctx, ticks) }()

	next := func() time.Duration {
		t.Helper()
		select {
		case d := <-ticks:
			return d
		case <-time.After(waitFor):
			t.Fatal("no tick")
			return 0
		}
	}
	sum := func(n int) time.Duration {
		var total time.Duration
		for i := 0; i < n; i++ {
			d := next()
			require.Positive(t, d)
			total += d
		}
		return total
	}

	require.GreaterOrEqual(t, next(), interval)
	require.GreaterOrEqual(t, sum(3), 3*interval-interval/2)

	l.setPasting(true)
	require.True(t, l.pasting)
	next() // already scheduled at the old interval

	// Deadlines advance by the doubled interval; three ticks at the normal
	// interval could not span this long
	require.GreaterOrEqual(t, sum(3), 4*interval)

	l.setPasting(false)
	require.True(t, l.dirty)

	cancel()
	require.NoError(t, <-done)
}

func TestHandleTickPassesDelta(t *testing.T) {
	a, b := newProbe(true), newProbe(false)
	b.IsDisabled = true
	l := New(newFakeDriver(5, 20), frames(2), []widget.Component{a, b}, Config{})

	l.handleTick(30 * time.Millisecond)
	l.handleTick(45 * time.Millisecond)

	for _, p := range []*probe{a, b} {
		p.mu.Lock()
		require.Equal(t, []time.Duration{30 * time.Millisecond, 45 * time.Millisecond}, p.deltas)
		p.mu.Unlock()
	}
	require.False(t, l.dirty)
}

func TestInvalidateRedraws(t *testing.T) {
	d := newFakeDriver(5, 20)
	p := newProbe(true)
	l := New(d, frames(1), []widget.Component{p}, Config{})
	start(t, l)

	require.Eventually(t, func() bool { return p.renderCount() == 1 }, waitFor, tick)
	l.Invalidate()
	l.Invalidate()
	require.Eventually(t, func() bool { return p.renderCount() >= 2 }, waitFor, tick)
}

func TestBurstCoalescesIntoOneRedraw(t *testing.T) {
	d := newFakeDriver(5, 20)
	p := newProbe(true)
	l := New(d, frames(1), []widget.Component{p}, Config{})

	events := make(chan input.Event, 8)
	for _, r := range "abcdef" {
		events <- input.Char(r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.dispatch(ctx, events, nil, nil) }()

	require.Eventually(t, func() bool { return len(p.received()) == 6 && p.renderCount() == 2 }, waitFor, tick)
	require.Never(t, func() bool { return p.renderCount() > 2 }, 50*time.Millisecond, tick)

	cancel()
	require.NoError(t, <-done)
}

func TestPasteSuppressesRedraw(t *testing.T) {
	d := newFakeDriver(5, 20)
	p := newProbe(true)
	l := New(d, frames(1), []widget.Component{p}, Config{})

	events := make(chan input.Event, 8)
	events <- input.Event{Kind: input.KindPasteStart}
	events <- input.Char('a')
	events <- input.Char('b')

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.dispatch(ctx, events, nil, nil) }()

	require.Eventually(t, func() bool { return len(p.received()) == 2 }, waitFor, tick)
	require.Never(t, func() bool { return p.renderCount() > 1 }, 50*time.Millisecond, tick)

	events <- input.Event{Kind: input.KindPasteEnd}
	require.Eventually(t, func() bool { return p.renderCount() == 2 }, waitFor, tick)

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, DefaultTickInterval, <-l.intervals)
}

func TestResizeDebounce(t *testing.T) {
	d := newFakeDriver(10, 20)
	p := newProbe(true)
	start(t, New(d, frames(1), []widget.Component{p}, Config{ResizeDebounce: 30 * time.Millisecond}))

	require.Eventually(t, func() bool { return p.renderCount() >= 1 }, waitFor, tick)
	require.Equal(t, 1, d.clearCount())

	for i := 0; i < 5; i++ {
		d.resize(12, 30+i)
	}

	require.Eventually(t, func() bool { return p.lastContent().Width == 32 }, waitFor, tick)
	require.Never(t, func() bool { return d.clearCount() > 2 }, 100*time.Millisecond, tick)
	require.Equal(t, geom.Region{Top: 1, Left: 1, Width: 32, Height: 10}, p.lastContent())
}

func TestTooSmall(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		root    layout.Node
		padding int
		want    string
	}{
		{
			name: "below minimal size",
			rows: 4, cols: 45,
			root: layout.Fixed(50, 10, layout.Frame(0)),
			want: "terminal too small: need 50x10, have 45x4",
		},
		{
			name: "padding leaves no content",
			rows: 5, cols: 30,
			root:    frames(1),
			padding: 2,
			want:    "terminal too small: 30x5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m, err := metrics.New(reg)
			require.NoError(t, err)

			d := newFakeDriver(tt.rows, tt.cols)
			p := newProbe(true)
			start(t, New(d, tt.root, []widget.Component{p}, Config{Padding: tt.padding, Metrics: m}))

			require.Eventually(t, func() bool { return strings.Contains(d.output(), tt.want) }, waitFor, tick)
			require.Eventually(t, func() bool {
				return counterValue(reg, "panes_too_small_frames_total") == 1
			}, waitFor, tick)
			require.Zero(t, p.renderCount())
		})
	}
}

func TestFrameBordersAndTitles(t *testing.T) {
	d := newFakeDriver(5, 21)
	comps := []widget.Component{widget.NewLabel("a", "left"), widget.NewLabel("b", "right")}
	start(t, New(d, frames(2), comps, Config{}))

	require.Eventually(t, func() bool {
		out := d.output()
		return strings.Contains(out, "╭a────────┬b────────╮") &&
			strings.Contains(out, "│left     │right    │") &&
			strings.Contains(out, "╰─────────┴─────────╯")
	}, waitFor, tick)
}

func TestCursorPlacement(t *testing.T) {
	d := newFakeDriver(10, 40)
	f := widget.NewField("name", "> ")
	start(t, New(d, frames(1), []widget.Component{f}, Config{}))

	cursorAt := func(row, col int) func() bool {
		return func() bool {
			d.mu.Lock()
			defer d.mu.Unlock()
			return d.cursorShown && d.cursorRow == row && d.cursorCol == col
		}
	}
	require.Eventually(t, cursorAt(2, 4), waitFor, tick)
	require.Contains(t, d.output(), "[name]")

	d.send("ab")
	require.Eventually(t, cursorAt(2, 6), waitFor, tick)
}

func TestCursorHiddenWithoutCursorer(t *testing.T) {
	d := newFakeDriver(10, 40)
	p := newProbe(true)
	start(t, New(d, frames(1), []widget.Component{p}, Config{}))

	require.Eventually(t, func() bool { return p.renderCount() >= 1 }, waitFor, tick)
	require.Never(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.cursorShown
	}, 30*time.Millisecond, tick)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 'q', cfg.QuitKey)
	require.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	require.Equal(t, 50*time.Millisecond, cfg.ResizeDebounce)
	require.NotNil(t, cfg.Logger)

	require.Zero(t, Config{Padding: -3}.withDefaults().Padding)
}

func TestGuardRecoversPanic(t *testing.T) {
	err := guard("ticker", func() error { panic("bad tick") })()
	require.ErrorContains(t, err, "ticker panic: bad tick")

	require.NoError(t, guard("ok", func() error { return nil })())
}

func TestNotifyKeepsOnePending(t *testing.T) {
	ch := make(chan struct{}, 1)
	notify(ch)
	notify(ch)
	notify(ch)
	require.Len(t, ch, 1)
}

// counterValue returns the named counter, or -1 when it was not gathered
func counterValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return -1
}
