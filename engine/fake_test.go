package engine

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/layout"
	"github.com/lixenwraith/panes/render"
	"github.com/lixenwraith/panes/terminal/ansi"
	"github.com/lixenwraith/panes/widget"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// fakeDriver is an in-memory terminal; input is fed through the in channel
type fakeDriver struct {
	mu sync.Mutex

	rows, cols   int
	out          bytes.Buffer
	enableErr    error
	rawOn        bool
	disables     int
	clears       int
	onResize     func()
	unsubscribed bool
	cursorShown  bool
	cursorRow    int
	cursorCol    int

	in      chan []byte
	readErr chan error
}

func newFakeDriver(rows, cols int) *fakeDriver {
	return &fakeDriver{
		rows:    rows,
		cols:    cols,
		in:      make(chan []byte, 16),
		readErr: make(chan error, 1),
	}
}

func (f *fakeDriver) EnableRawMode(onResize func()) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enableErr != nil {
		return nil, f.enableErr
	}
	f.rawOn = true
	f.onResize = onResize
	return func() {
		f.mu.Lock()
		f.unsubscribed = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeDriver) DisableRawMode() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rawOn = false
	f.disables++
	return nil
}

func (f *fakeDriver) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, f.cols
}

func (f *fakeDriver) Read(stop <-chan struct{}) ([]byte, error) {
	select {
	case <-stop:
		return nil, nil
	case p, ok := <-f.in:
		if !ok {
			return nil, io.EOF
		}
		return p, nil
	case err := <-f.readErr:
		return nil, err
	}
}

func (f *fakeDriver) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Write(p)
}

func (f *fakeDriver) MoveCursor(row, col int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorRow, f.cursorCol = row, col
}

func (f *fakeDriver) ShowCursor() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorShown = true
}

func (f *fakeDriver) HideCursor() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorShown = false
}

func (f *fakeDriver) ClearScreen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func (f *fakeDriver) SetStyle(ansi.Style) {}
func (f *fakeDriver) ResetStyle()         {}
func (f *fakeDriver) WriteText(string)    {}
func (f *fakeDriver) Flush() error        { return nil }

func (f *fakeDriver) send(s string) { f.in <- []byte(s) }

func (f *fakeDriver) output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

func (f *fakeDriver) resize(rows, cols int) {
	f.mu.Lock()
	f.rows, f.cols = rows, cols
	cb := f.onResize
	f.mu.Unlock()
	cb()
}

func (f *fakeDriver) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// probe is a component that records what the loop does to it
type probe struct {
	widget.Base
	consume bool

	mu      sync.Mutex
	events  []input.Event
	ticks   int
	deltas  []time.Duration
	renders int
	content geom.Region
}

func newProbe(interactive bool) *probe {
	return &probe{Base: widget.Base{IsInteractive: interactive}, consume: true}
}

func (p *probe) Render(s *render.Screen, r geom.Region) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders++
	p.content = r
}

func (p *probe) Handle(ev input.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.Kind == input.KindTick {
		p.ticks++
		p.deltas = append(p.deltas, ev.Delta)
		return false
	}
	p.events = append(p.events, ev)
	return p.consume
}

func (p *probe) received() []input.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]input.Event(nil), p.events...)
}

func (p *probe) renderCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renders
}

func (p *probe) lastContent() geom.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

func (p *probe) tickCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticks
}

// frames lays n components side by side
func frames(n int) layout.Node {
	children := make([]layout.Node, n)
	for i := range children {
		children[i] = layout.Frame(i)
	}
	return layout.HStack(-1, children...)
}

// running is a loop started in the background
type running struct {
	done chan struct{}
	err  error
}

// start runs the loop and stops it at test cleanup
func start(t *testing.T, l *Loop) *running {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{done: make(chan struct{})}
	go func() {
		r.err = l.Run(ctx)
		close(r.done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-r.done:
		case <-time.After(waitFor):
		}
	})
	return r
}

// wait blocks until the loop returns
func (r *running) wait(t *testing.T) error {
	t.Helper()
	select {
	case <-r.done:
		return r.err
	case <-time.After(waitFor):
		t.Fatal("loop did not stop")
		return nil
	}
}

func (r *running) stopped() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}
