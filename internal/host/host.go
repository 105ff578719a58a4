// Package host wires the real controlling terminal into the program: raw
// mode, the alternate screen, SGR mouse reporting, and the signal handling
// that keeps all of that consistent across suspend/resume and resize.
package host

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const (
	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"
	seqMouseOn      = "\x1b[?1000h\x1b[?1006h"
	seqMouseOff     = "\x1b[?1000l\x1b[?1006l"
	seqHideCursor   = "\x1b[?25l"
	seqShowCursor   = "\x1b[?25h"
)

// Host owns the controlling terminal's mode: alt-screen, raw input, mouse
// reporting, and the OS signals that must reverse or reinstate it.
type Host struct {
	in       *os.File
	out      *os.File
	restore  *term.State
	active   bool
	sigCh    chan os.Signal
	stopCh   chan struct{}
	onResize func(cols, rows int)
	onSignal func(sig os.Signal)
	forward  func(sig syscall.Signal) // sent to every child PTY on SIGTSTP/SIGCONT
}

// New builds a Host bound to the given input/output files (ordinarily
// os.Stdin/os.Stdout).
func New(in, out *os.File) *Host {
	return &Host{in: in, out: out}
}

// IsTerminal reports whether h's output is an interactive terminal.
func (h *Host) IsTerminal() bool {
	fd := h.out.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// OnResize registers the callback invoked (with the new size) whenever
// SIGWINCH fires.
func (h *Host) OnResize(fn func(cols, rows int)) { h.onResize = fn }

// OnSignal registers a callback invoked for SIGINT/SIGTERM so the caller
// can save state before the process exits.
func (h *Host) OnSignal(fn func(sig os.Signal)) { h.onSignal = fn }

// ForwardToChildren registers the callback used to relay SIGSTOP/SIGCONT to
// every live child PTY when the host itself is suspended or resumed.
func (h *Host) ForwardToChildren(fn func(sig syscall.Signal)) { h.forward = fn }

// Size returns the current terminal size.
func (h *Host) Size() (cols, rows int, err error) {
	return term.GetSize(int(h.in.Fd()))
}

// Write sends a rendered frame straight to the controlling terminal.
func (h *Host) Write(p []byte) (int, error) {
	return h.out.Write(p)
}

// Start enters the alternate screen, hides the cursor, enables SGR mouse
// reporting, puts stdin into raw mode, and begins watching
// SIGINT/SIGTERM/SIGTSTP/SIGCONT/SIGWINCH.
func (h *Host) Start() error {
	state, err := term.MakeRaw(int(h.in.Fd()))
	if err != nil {
		return fmt.Errorf("host: enter raw mode: %w", err)
	}
	h.restore = state
	h.active = true

	h.out.WriteString(seqAltScreenOn)
	h.out.WriteString(seqMouseOn)
	h.out.WriteString(seqHideCursor)

	h.sigCh = make(chan os.Signal, 4)
	h.stopCh = make(chan struct{})
	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGCONT, syscall.SIGWINCH)
	go h.watchSignals()

	return nil
}

// Stop reverses Start: restores cooked mode, disables mouse reporting,
// shows the cursor, and leaves the alternate screen.
func (h *Host) Stop() error {
	if !h.active {
		return nil
	}
	h.active = false
	signal.Stop(h.sigCh)
	close(h.stopCh)

	h.out.WriteString(seqShowCursor)
	h.out.WriteString(seqMouseOff)
	h.out.WriteString(seqAltScreenOff)

	if h.restore != nil {
		return term.Restore(int(h.in.Fd()), h.restore)
	}
	return nil
}

func (h *Host) watchSignals() {
	for {
		select {
		case sig := <-h.sigCh:
			h.handleSignal(sig)
		case <-h.stopCh:
			return
		}
	}
}

func (h *Host) handleSignal(sig os.Signal) {
	switch sig {
	case syscall.SIGINT, syscall.SIGTERM:
		if h.onSignal != nil {
			h.onSignal(sig)
		}
	case syscall.SIGTSTP:
		h.undoModes()
		if h.forward != nil {
			h.forward(syscall.SIGSTOP)
		}
		syscall.Kill(syscall.Getpid(), syscall.SIGSTOP)
	case syscall.SIGCONT:
		if h.forward != nil {
			h.forward(syscall.SIGCONT)
		}
		h.redoModes()
		if h.onResize != nil {
			if cols, rows, err := h.Size(); err == nil {
				h.onResize(cols, rows)
			}
		}
	case syscall.SIGWINCH:
		if h.onResize != nil {
			if cols, rows, err := h.Size(); err == nil {
				h.onResize(cols, rows)
			}
		}
	}
}

func (h *Host) undoModes() {
	h.out.WriteString(seqShowCursor)
	h.out.WriteString(seqMouseOff)
	h.out.WriteString(seqAltScreenOff)
	if h.restore != nil {
		term.Restore(int(h.in.Fd()), h.restore)
	}
}

func (h *Host) redoModes() {
	state, err := term.MakeRaw(int(h.in.Fd()))
	if err == nil {
		h.restore = state
	}
	h.out.WriteString(seqAltScreenOn)
	h.out.WriteString(seqMouseOn)
	h.out.WriteString(seqHideCursor)
}
