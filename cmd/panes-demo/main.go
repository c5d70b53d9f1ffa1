// Command panes-demo runs a small split-pane terminal UI: an input field,
// a message log, a tick-driven clock and a disabled panel that rings the
// bell when typed at.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/panes/audio"
	"github.com/lixenwraith/panes/config"
	"github.com/lixenwraith/panes/engine"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/metrics"
	"github.com/lixenwraith/panes/terminal"
)

type options struct {
	configPath  string
	backend     string
	logFile     string
	logLevel    string
	metricsAddr string
	padding     int
	bell        bool
	solver      bool
}

func main() {
	// Ensure terminal is reset even if a component panics
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mPANES CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "panes-demo [flags]",
		Short: "Split-pane terminal UI demo",
		Long: `panes-demo lays out four panes and runs the event loop until q or Ctrl-C.
Tab moves focus between interactive panes; Enter submits the input line.`,
		Example: `  # Run with defaults
  panes-demo

  # Log to a file at debug level and expose metrics
  panes-demo --log-file /tmp/panes.log --log-level debug --metrics-addr :9090

  # Use the controlling tty and the constraint solver layout
  panes-demo --backend tty --solver`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts.solver)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML config file")
	f.StringVar(&opts.backend, "backend", terminal.BackendUnix, "Terminal backend: unix or tty")
	f.StringVar(&opts.logFile, "log-file", "", "Write logs to this file (discarded if empty)")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	f.IntVar(&opts.padding, "padding", 0, "Cells of padding inside each pane border")
	f.BoolVar(&opts.bell, "bell", false, "Ring the bell on input sent to a disabled pane")
	f.BoolVar(&opts.solver, "solver", false, "Place panes with the constraint solver instead of stacks")

	return cmd
}

// resolveConfig loads the config file and applies explicitly set flags over it
func resolveConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Backend = opts.backend
	}
	if f.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if f.Changed("padding") {
		cfg.Padding = opts.padding
	}
	if f.Changed("bell") {
		cfg.Bell = opts.bell
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, useSolver bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := setupLogging(cfg.LogFile, cfg.Level())
	if err != nil {
		return err
	}
	defer closeLog()

	backend, err := terminal.NewBackend(cfg.Backend)
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	term := terminal.New(backend)

	ec := cfg.Engine()
	ec.Logger = logger

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		m, err := metrics.New(reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		ec.Metrics = m

		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	var bell *audio.Bell
	if cfg.Bell {
		// Optional, the demo runs without sound
		if bell, err = audio.NewBell(0.5); err != nil {
			logger.Warn("bell disabled", "err", err)
		}
		defer bell.Close()
	}

	app := newApp(useSolver, cfg.Padding)
	ec.Unhandled = func(ev input.Event) {
		bell.Ring()
		app.setStatus(fmt.Sprintf("ignored %s", ev))
	}

	loop := engine.New(term, app.root, app.components, ec)
	app.onChange = loop.Invalidate

	if err := loop.Run(ctx); err != nil {
		return err
	}
	return nil
}

// serveMetrics exposes reg over HTTP until shut down
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	return srv
}
