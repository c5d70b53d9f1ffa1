package engine

import (
	"log/slog"
	"time"

	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/metrics"
)

const (
	DefaultQuitKey        = 'q'
	DefaultTickInterval   = 100 * time.Millisecond
	DefaultResizeDebounce = 50 * time.Millisecond
)

// Config tunes the loop; zero values select the defaults
type Config struct {
	// QuitKey stops the loop when typed outside a paste
	QuitKey rune
	// TickInterval is doubled while a paste is in progress
	TickInterval time.Duration
	// ResizeDebounce is the quiet period before a resize is applied
	ResizeDebounce time.Duration
	// Padding insets every content region inside its border
	Padding int

	Logger *slog.Logger
	// Unhandled receives events addressed to a disabled component
	Unhandled func(input.Event)
	Metrics   *metrics.Metrics
}

// DefaultConfig returns the defaults
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.QuitKey == 0 {
		c.QuitKey = DefaultQuitKey
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ResizeDebounce <= 0 {
		c.ResizeDebounce = DefaultResizeDebounce
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}
