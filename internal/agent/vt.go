// Package agent owns one child process per pane: its PTY, its headless VT
// emulator buffer, and the styled-line encoding the compositor composites.
package agent

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/vito/midterm"
)

// VT owns the PTY lifecycle, child process, and virtual terminal buffer for
// one agent. All terminal writes and cursor/content reads are guarded by Mu.
type VT struct {
	Ptm        *os.File
	Cmd        *exec.Cmd
	Mu         sync.Mutex
	Vt         *midterm.Terminal
	Scrollback *midterm.Terminal
	Rows       int
	Cols       int
	ChildRows  int
	OscFg      string
	OscBg      string
	LastOut    time.Time
}

// NewVT allocates a VT with an already-sized emulator pair. The caller
// still must call StartPTY to actually spawn the child.
func NewVT(childRows, cols int) *VT {
	return &VT{
		Vt:         midterm.NewTerminal(childRows, cols),
		Scrollback: midterm.NewTerminal(childRows, cols),
		ChildRows:  childRows,
		Cols:       cols,
		Rows:       childRows,
	}
}

// StartPTY creates and starts the child process in a PTY of the given size.
// extraEnv entries override any existing environment variable of the same
// key rather than being appended alongside it.
func (vt *VT) StartPTY(command string, args []string, childRows, cols int, extraEnv map[string]string) error {
	vt.Cmd = exec.Command(command, args...)
	if len(extraEnv) > 0 {
		env := make([]string, 0, len(os.Environ())+len(extraEnv))
		for _, e := range os.Environ() {
			key := e
			if idx := strings.Index(e, "="); idx >= 0 {
				key = e[:idx]
			}
			if _, override := extraEnv[key]; !override {
				env = append(env, e)
			}
		}
		for k, v := range extraEnv {
			env = append(env, k+"="+v)
		}
		vt.Cmd.Env = env
	}
	var err error
	vt.Ptm, err = pty.StartWithSize(vt.Cmd, &pty.Winsize{
		Rows: uint16(childRows),
		Cols: uint16(cols),
	})
	if err != nil {
		return fmt.Errorf("spawn %s: %w", command, err)
	}
	return nil
}

// dsrQuery matches the DSR cursor-position-report request, ESC [ 6 n.
var dsrQuery = regexp.MustCompile(`\x1b\[6n`)

// PipeOutput reads child PTY output into the VT emulator and the append-only
// scrollback, answers DSR and OSC 10/11 queries inline, and invokes onData
// after every chunk so the caller can schedule a redraw.
func (vt *VT) PipeOutput(onData func()) {
	buf := make([]byte, 4096)
	for {
		n, err := vt.Ptm.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			vt.respondOSCColors(chunk)
			vt.respondDSR(chunk)

			vt.Mu.Lock()
			vt.LastOut = time.Now()
			vt.Vt.Write(chunk)
			if vt.Scrollback != nil {
				vt.Scrollback.Write(chunk)
			}
			onData()
			vt.Mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// respondDSR answers ESC [ 6 n with the VT's current cursor position,
// ESC [ {row} ; {col} R. Some children (notably Codex) block indefinitely on
// this query before they will read further input, so it must be answered
// from the emulator's state rather than left to the real terminal.
func (vt *VT) respondDSR(data []byte) {
	if !dsrQuery.Match(data) {
		return
	}
	vt.Mu.Lock()
	row := vt.Vt.Cursor.Y + 1
	col := vt.Vt.Cursor.X + 1
	vt.Mu.Unlock()
	fmt.Fprintf(vt.Ptm, "\x1b[%d;%dR", row, col)
}

// respondOSCColors answers OSC 10/11 foreground/background color queries
// with the cached values set by the host's color-profile detection.
func (vt *VT) respondOSCColors(data []byte) {
	if vt.OscFg != "" && bytes.Contains(data, []byte("\x1b]10;?")) {
		fmt.Fprintf(vt.Ptm, "\x1b]10;%s\x1b\\", vt.OscFg)
	}
	if vt.OscBg != "" && bytes.Contains(data, []byte("\x1b]11;?")) {
		fmt.Fprintf(vt.Ptm, "\x1b]11;%s\x1b\\", vt.OscBg)
	}
}

// Resize updates dimensions and resizes the VT emulator, scrollback, and PTY.
func (vt *VT) Resize(totalRows, cols, childRows int) {
	vt.Mu.Lock()
	defer vt.Mu.Unlock()
	vt.Rows = totalRows
	vt.Cols = cols
	vt.ChildRows = childRows
	vt.Vt.Resize(childRows, cols)
	if vt.Scrollback != nil {
		vt.Scrollback.ResizeX(cols)
	}
	if vt.Ptm != nil {
		pty.Setsize(vt.Ptm, &pty.Winsize{Rows: uint16(childRows), Cols: uint16(cols)})
	}
}

// IsIdle reports whether the child has produced no output for at least the
// given threshold.
func (vt *VT) IsIdle(threshold time.Duration) bool {
	vt.Mu.Lock()
	defer vt.Mu.Unlock()
	return !vt.LastOut.IsZero() && time.Since(vt.LastOut) > threshold
}

// ErrWriteTimeout is returned by Write when the child is not draining its
// stdin and the kernel PTY buffer fills.
var ErrWriteTimeout = fmt.Errorf("pty write timed out")

// Write forwards p to the child PTY, giving up after timeout so a hung
// child can never block the event loop. The write itself runs in a
// detached goroutine; on timeout it is left to complete (or fail) in the
// background, since os.File has no way to cancel an in-flight Write.
func (vt *VT) Write(p []byte, timeout time.Duration) (int, error) {
	if vt.Ptm == nil {
		return 0, nil
	}
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := vt.Ptm.Write(p)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, ErrWriteTimeout
	}
}

// CursorReport returns the VT's current 0-based cursor position as
// (row, col); the action dispatcher uses the row to seed a pane's read
// cursor.
func (vt *VT) CursorReport() (row, col int) {
	vt.Mu.Lock()
	defer vt.Mu.Unlock()
	return vt.Vt.Cursor.Y, vt.Vt.Cursor.X
}

