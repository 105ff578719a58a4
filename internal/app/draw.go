package app

import (
	"os"
	"syscall"

	"github.com/vito/midterm"

	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/compositor"
	"github.com/pashenkov/braid/internal/layout"
)

// paneLines is the compositor.PaneLines callback: it reads either the
// live VT or the scrollback buffer depending on whether the pane is
// currently scrolled, then downsamples truecolor SGR sequences to
// whatever the host terminal profile actually supports.
func (a *App) paneLines(paneID string) []string {
	ag := a.lookupAgent(paneID)
	if ag == nil {
		return nil
	}

	ag.VT.Mu.Lock()
	defer ag.VT.Mu.Unlock()

	if a.compositor.IsFollowingTail(paneID) {
		return a.styledRows(ag.VT.Vt, 0, len(ag.VT.Vt.Content))
	}
	offset := a.compositor.ScrollOffset(paneID)
	total := len(ag.VT.Scrollback.Content)
	start := total - offset - ag.VT.ChildRows
	if start < 0 {
		start = 0
	}
	return a.styledRows(ag.VT.Scrollback, start, total)
}

func (a *App) styledRows(vt *midterm.Terminal, start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(vt.Content) {
		end = len(vt.Content)
	}
	if start >= end {
		return nil
	}
	out := make([]string, 0, end-start)
	for row := start; row < end; row++ {
		out = append(out, a.downsample.Apply(agent.StyledLine(vt, row)))
	}
	return out
}

// flush is the compositor.OnDraw callback: it advances the resize state
// machine one tick, then renders and writes one synchronized frame.
func (a *App) flush() {
	if a.compositor.ResizePhase() == compositor.ResizeReflowing {
		a.compositor.SettleResize()
	}

	overlays := a.overlays.RenderBoxes(a.cols, a.rows)
	bar := a.statusBar()
	frame := a.compositor.Draw(a.paneLines, overlays, a.rows, bar)
	a.host.Write(frame)
}

// handleResize is the host.Host.OnResize callback. It fires on the host's
// own signal-watching goroutine, so it only enqueues the actual resize
// work onto a.work rather than touching the tree/compositor directly.
func (a *App) handleResize(cols, rows int) {
	a.enqueue(func() { a.doResize(cols, rows) })
}

// doResize drives the two-phase resize pipeline and resizes every pane's
// PTY/VT pair to its new bounds. Must run on the work-serialized goroutine.
func (a *App) doResize(cols, rows int) {
	a.cols, a.rows = cols, rows
	contentRows := rows - 1
	if contentRows < 1 {
		contentRows = 1
	}

	a.compositor.BeginResize(a.paneLines)
	a.compositor.ScheduleDraw()

	a.compositor.ApplyResize(layout.Rect{X: 0, Y: 0, Width: cols, Height: contentRows}, a.resizePane)
	a.compositor.ScheduleDraw()
}

// resizePane is the compositor.ResizeFunc: it resizes one pane's PTY/VT
// pair and returns the child row count it actually reserved (the full
// pane height; braid reserves no pane-local chrome).
func (a *App) resizePane(paneID string, totalRows, cols, childRows int) int {
	ag := a.lookupAgent(paneID)
	if ag == nil {
		return childRows
	}
	ag.Resize(totalRows, cols, childRows)
	return childRows
}

// resizeAllPanes pushes an initial size to every already-spawned agent,
// used once at startup before the first draw.
func (a *App) resizeAllPanes(contentRows, cols int) {
	for _, p := range a.tree.AllPanes() {
		ag := a.lookupAgent(p.AgentID)
		if ag == nil {
			continue
		}
		h := p.Bounds.Height
		w := p.Bounds.Width
		if h < 1 {
			h = contentRows
		}
		if w < 1 {
			w = cols
		}
		ag.Resize(h, w, h)
	}
}

// handleSignal is the host.Host.OnSignal callback: SIGINT/SIGTERM quit the
// process with the conventional 128+signal exit code. requestQuit is
// itself safe to call from any goroutine.
func (a *App) handleSignal(sig os.Signal) {
	code := 1
	if s, ok := sig.(syscall.Signal); ok {
		code = 128 + int(s)
	}
	a.requestQuit(code)
}

// forwardSignal is the host.Host.ForwardToChildren callback: relays
// SIGSTOP/SIGCONT to every live child so suspending braid suspends its
// children too. Fires on the host's own signal-watching goroutine, so the
// agent snapshot is taken on the input loop; the actual signalling doesn't
// touch a.agents and happens inline once the snapshot is in hand.
func (a *App) forwardSignal(sig syscall.Signal) {
	done := make(chan []*agent.Agent, 1)
	a.enqueue(func() {
		agents := make([]*agent.Agent, 0, len(a.agents))
		for _, ag := range a.agents {
			agents = append(agents, ag)
		}
		done <- agents
	})
	var agents []*agent.Agent
	select {
	case agents = <-done:
	case <-a.quitCh:
		return
	}
	for _, ag := range agents {
		if ag.VT.Cmd != nil && ag.VT.Cmd.Process != nil {
			ag.VT.Cmd.Process.Signal(sig)
		}
	}
}
