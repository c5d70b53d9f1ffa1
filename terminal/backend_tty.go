//go:build unix

package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// ttyIdleBackoff paces the read pump while the tty returns empty reads
const ttyIdleBackoff = 10 * time.Millisecond

type ttyRead struct {
	data []byte
	err  error
}

// ttySession is one Init..Fini span; its pump exits when done closes
type ttySession struct {
	reads  chan ttyRead
	done   chan struct{}
	exited chan struct{}
}

// ttyBackend drives the controlling terminal through tcell's Tty
// A pump goroutine per session owns the blocking reads
type ttyBackend struct {
	tty tcell.Tty

	mu      sync.Mutex
	session *ttySession
}

// NewTTYBackend opens /dev/tty
func NewTTYBackend() (Backend, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, fmt.Errorf("open tty: %w", err)
	}
	return &ttyBackend{tty: tty}, nil
}

func (b *ttyBackend) Init() error {
	if err := b.tty.Start(); err != nil {
		return fmt.Errorf("start tty: %w", err)
	}

	sess := &ttySession{
		reads:  make(chan ttyRead),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	b.mu.Lock()
	b.session = sess
	b.mu.Unlock()

	go b.pump(sess)
	return nil
}

func (b *ttyBackend) Fini() error {
	b.mu.Lock()
	sess := b.session
	b.session = nil
	b.mu.Unlock()

	if sess != nil {
		close(sess.done)
	}
	// Wakes a pump blocked in Read
	b.tty.Drain()
	if err := b.tty.Stop(); err != nil {
		return fmt.Errorf("stop tty: %w", err)
	}
	return nil
}

func (b *ttyBackend) Size() (int, int) {
	ws, err := b.tty.WindowSize()
	if err != nil || ws.Height == 0 || ws.Width == 0 {
		return fallbackRows, fallbackCols
	}
	return ws.Height, ws.Width
}

func (b *ttyBackend) Write(p []byte) (int, error) {
	return b.tty.Write(p)
}

// Read outside an Init..Fini span reports end of input
func (b *ttyBackend) Read(stop <-chan struct{}) ([]byte, error) {
	b.mu.Lock()
	sess := b.session
	b.mu.Unlock()
	if sess == nil {
		return nil, io.EOF
	}

	select {
	case <-stop:
		return nil, nil
	case <-sess.done:
		return nil, io.EOF
	case r := <-sess.reads:
		return r.data, r.err
	}
}

func (b *ttyBackend) pump(sess *ttySession) {
	defer close(sess.exited)

	send := func(r ttyRead) bool {
		select {
		case sess.reads <- r:
			return true
		case <-sess.done:
			return false
		}
	}

	buf := make([]byte, 256)
	for {
		n, err := b.tty.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if !send(ttyRead{data: data}) {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				err = fmt.Errorf("tty read: %w", err)
			}
			send(ttyRead{err: err})
			return
		}
		if n == 0 {
			// Stopped tty returns immediately
			select {
			case <-sess.done:
				return
			case <-time.After(ttyIdleBackoff):
			}
		}
	}
}

func (b *ttyBackend) SetResizeHandler(handler func()) func() {
	b.tty.NotifyResize(handler)

	var once sync.Once
	return func() {
		once.Do(func() { b.tty.NotifyResize(nil) })
	}
}
