package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/lixenwraith/panes/input"
)

// guard converts a panic in a loop goroutine into an error so Run can restore the terminal
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panic: %v\n%s", name, r, debug.Stack())
			}
		}()
		return fn()
	}
}

// readInput decodes input chunks until end of stream or cancellation
// End of stream flushes the decoder and reports KindEOF
func (l *Loop) readInput(ctx context.Context, out chan<- input.Event) error {
	dec := input.NewDecoder()
	var batch []input.Event

	send := func(ev input.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		p, err := l.driver.Read(ctx.Done())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("read input: %w", err)
			}
			if ev, ok := dec.Flush(); ok && !send(ev) {
				return nil
			}
			send(input.Event{Kind: input.KindEOF})
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		batch = dec.Feed(p, batch[:0])
		for _, ev := range batch {
			if !send(ev) {
				return nil
			}
		}
	}
}

// runTicker emits the elapsed time at each tick boundary
// The interval can be changed through l.intervals and applies from the next tick
func (l *Loop) runTicker(ctx context.Context, out chan<- time.Duration) error {
	interval := l.cfg.TickInterval
	last := time.Now()
	deadline := last.Add(interval)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case interval = <-l.intervals:

		case now := <-timer.C:
			elapsed := now.Sub(last)
			last = now

			select {
			case out <- elapsed:
			case <-ctx.Done():
				return nil
			}

			// Drift correction, resync when too far behind
			deadline = deadline.Add(interval)
			if time.Since(deadline) > 2*interval {
				deadline = time.Now().Add(interval)
			}
			timer.Reset(max(time.Until(deadline), 0))
		}
	}
}
