// Package config loads runtime settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/panes/engine"
	"github.com/lixenwraith/panes/terminal"
)

// Duration is a time.Duration decoded from strings such as "100ms"
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config mirrors the TOML file
type Config struct {
	QuitKey        string   `toml:"quit_key"`
	TickInterval   Duration `toml:"tick_interval"`
	ResizeDebounce Duration `toml:"resize_debounce"`
	Padding        int      `toml:"padding"`
	Backend        string   `toml:"backend"`
	LogFile        string   `toml:"log_file"`
	LogLevel       string   `toml:"log_level"`
	Bell           bool     `toml:"bell"`
	MetricsAddr    string   `toml:"metrics_addr"`
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		QuitKey:        string(engine.DefaultQuitKey),
		TickInterval:   Duration(engine.DefaultTickInterval),
		ResizeDebounce: Duration(engine.DefaultResizeDebounce),
		Backend:        terminal.BackendUnix,
		LogLevel:       "info",
	}
}

// Load reads path over the defaults; an empty path or a missing file yields the defaults
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem
func (c Config) Validate() error {
	r, size := utf8.DecodeRuneInString(c.QuitKey)
	if size == 0 || size != len(c.QuitKey) || r == utf8.RuneError || !unicode.IsPrint(r) {
		return fmt.Errorf("quit_key: want one printable character, got %q", c.QuitKey)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval: must be positive, got %s", time.Duration(c.TickInterval))
	}
	if c.ResizeDebounce <= 0 {
		return fmt.Errorf("resize_debounce: must be positive, got %s", time.Duration(c.ResizeDebounce))
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding: must not be negative, got %d", c.Padding)
	}
	switch c.Backend {
	case terminal.BackendUnix, terminal.BackendTTY:
	default:
		return fmt.Errorf("backend: unknown %q", c.Backend)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("log_level: unknown %q", c.LogLevel)
	}
	return nil
}

// Level returns the slog level named by LogLevel, info when unknown
func (c Config) Level() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Engine converts the loop settings; hooks, logger and metrics are left for the caller
func (c Config) Engine() engine.Config {
	quit, _ := utf8.DecodeRuneInString(c.QuitKey)
	return engine.Config{
		QuitKey:        quit,
		TickInterval:   time.Duration(c.TickInterval),
		ResizeDebounce: time.Duration(c.ResizeDebounce),
		Padding:        c.Padding,
	}
}
