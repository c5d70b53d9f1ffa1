// Package terminal drives an xterm-compatible terminal directly with ANSI sequences.
//
// A Terminal wraps a Backend, which owns the platform side: raw mode,
// window size queries, resize notification and cancellable reads. Two
// backends are provided:
//   - unix: stdin/stdout through golang.org/x/term and golang.org/x/sys/unix
//   - tty:  the controlling terminal through tcell's Tty, usable when stdio is redirected
//
// Raw mode also enables bracketed paste so pasted text arrives framed by
// ESC[200~ and ESC[201~. EmergencyReset restores a sane terminal from a
// panic handler when the normal shutdown path cannot run.
package terminal
