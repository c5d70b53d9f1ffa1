package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/panes/geom"
	"github.com/lixenwraith/panes/input"
	"github.com/lixenwraith/panes/render"
)

func regionsByPane(t *testing.T, useSolver bool, padding, cols, rows int) map[int]geom.Region {
	t.Helper()
	a := newApp(useSolver, padding)
	a.root.Update(cols, rows)
	got := make(map[int]geom.Region)
	for _, slot := range a.root.Regions(len(a.components)) {
		got[slot.Component] = slot.Region
	}
	require.Len(t, got, paneCount)
	return got
}

func TestLayoutsAgree(t *testing.T) {
	want := map[int]geom.Region{
		paneHeader: geom.New(0, 0, 80, 3),
		paneInput:  geom.New(2, 0, 57, 3),
		paneLog:    geom.New(4, 0, 57, 19),
		paneLocked: geom.New(2, 56, 24, 21),
		paneClock:  geom.New(23, 0, 80, 1),
	}

	require.Equal(t, want, regionsByPane(t, false, 0, 80, 24), "stack layout")
	require.Equal(t, want, regionsByPane(t, true, 0, 80, 24), "solver layout")
}

func TestFixedRowsGrowWithPadding(t *testing.T) {
	for _, useSolver := range []bool{false, true} {
		got := regionsByPane(t, useSolver, 1, 80, 24)
		require.Equal(t, geom.New(0, 0, 80, 5), got[paneHeader])
		require.Equal(t, geom.New(4, 0, 57, 5), got[paneInput])
		require.Equal(t, geom.New(8, 0, 57, 13), got[paneLog])
		require.Equal(t, geom.New(4, 56, 24, 17), got[paneLocked])
		require.Equal(t, geom.New(21, 0, 80, 3), got[paneClock])
		require.Equal(t, 1, got[paneClock].Inset(1).Height)
		require.Equal(t, 1, got[paneInput].Inset(2).Height)
	}
}

func TestSubmitAppendsToLog(t *testing.T) {
	a := newApp(false, 0)

	for _, r := range "hello" {
		require.True(t, a.field.Handle(input.Char(r)))
	}
	require.True(t, a.field.Handle(input.Event{Kind: input.KindEnter}))
	require.Equal(t, "", a.field.Text())

	// Blank lines are dropped
	a.field.Handle(input.Char(' '))
	a.field.Handle(input.Event{Kind: input.KindEnter})

	a.field.SetText("world")
	a.field.Handle(input.Event{Kind: input.KindEnter})

	require.Equal(t, "hello\nworld", a.history.Text)
}

func TestHistoryIsBounded(t *testing.T) {
	a := newApp(false, 0)
	for i := 0; i < maxHistory+5; i++ {
		a.submit("line")
	}
	require.Len(t, a.lines, maxHistory)
	require.Equal(t, maxHistory, strings.Count(a.history.Text, "\n")+1)
}

func TestSetStatusInvalidates(t *testing.T) {
	a := newApp(false, 0)
	a.setStatus("no callback yet")

	calls := 0
	a.onChange = func() { calls++ }
	a.setStatus("ignored x")

	require.Equal(t, 1, calls)
	require.Equal(t, "ignored x", a.status.Text)
	require.True(t, a.status.Disabled())
	require.True(t, a.status.Interactive())
}

func TestClockRedrawsOnSecondBoundary(t *testing.T) {
	c := &clock{}

	require.False(t, c.Handle(input.Char('x')))
	require.False(t, c.Handle(input.Tick(600*time.Millisecond)))
	require.True(t, c.Handle(input.Tick(600*time.Millisecond)))
	require.False(t, c.Handle(input.Tick(100*time.Millisecond)))

	s := render.NewScreen(1, 12)
	c.Render(s, geom.New(0, 0, 12, 1))
	require.Equal(t, "    up 00:01", rowText(s, 0, 12))

	narrow := render.NewScreen(1, 4)
	c.Render(narrow, geom.New(0, 0, 4, 1))
	require.Equal(t, "0:01", rowText(narrow, 0, 4))
}

func rowText(s *render.Screen, row, n int) string {
	var b strings.Builder
	for col := 0; col < n; col++ {
		g := s.Cell(row, col).Glyph
		if g == "" {
			g = " "
		}
		b.WriteString(g)
	}
	return b.String()
}

func TestSetupLogging(t *testing.T) {
	logger, closeLog, err := setupLogging("", slog.LevelInfo)
	require.NoError(t, err)
	require.NotNil(t, logger)
	closeLog()

	path := filepath.Join(t.TempDir(), "nested", "panes.log")
	logger, closeLog, err = setupLogging(path, slog.LevelWarn)
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept", "pane", "log")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "dropped")
	require.Contains(t, string(data), "msg=kept pane=log")
}
