package action

import (
	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/layout"
)

// afterLayoutChange re-runs the compositor's bounds/resize pipeline and
// pushes every live pane's new size down to its agent's PTY, per spec.md
// §4.5's pane-lifecycle rule: "after any split/close/zoom/equalize the
// dispatcher re-runs compositor.onResize() so bounds recompute, PTYs
// resize, and initial draws fire."
func (d *Dispatcher) afterLayoutChange() {
	d.ctx.Compositor.SyncPaneHeights()
	for _, p := range d.ctx.Tree.AllPanes() {
		a, ok := d.ctx.Agents[p.AgentID]
		if !ok {
			continue
		}
		a.Resize(p.Bounds.Height, p.Bounds.Width, p.Bounds.Height)
	}
	d.ctx.Compositor.ScheduleDraw()
}

func dirFromByte(b byte) (layout.Direction, bool) {
	switch b {
	case 'h':
		return layout.DirLeft, true
	case 'l':
		return layout.DirRight, true
	case 'k':
		return layout.DirUp, true
	case 'j':
		return layout.DirDown, true
	default:
		return 0, false
	}
}

func (d *Dispatcher) handleLayoutFocus(a input.Action) {
	dir, ok := dirFromByte(a.Direction)
	if !ok {
		return
	}
	if p, found := d.ctx.Tree.FindPaneInDirection(dir); found {
		d.ctx.Tree.FocusPane(p.ID)
	}
}

func (d *Dispatcher) handleLayoutCycle(a input.Action) {
	delta := 1
	if !a.Forward {
		delta = -1
	}
	d.ctx.Tree.CycleFocus(delta)
}

// handleLayoutSplit spawns a fresh agent of the same type as the currently
// focused pane and splits the focused pane to make room for it. The
// ex-command path (:e/:sp/:vs with an explicit type) calls spawnSplit
// directly instead, bypassing the router-sourced Action.
func (d *Dispatcher) handleLayoutSplit(a input.Action) {
	focused := d.focusedAgent()
	if focused == nil {
		return
	}
	d.spawnSplit(focused.Type, nil, a.Vertical)
}

// spawnSplit is the shared implementation behind the `w s`/`w v` keybinding
// and the `:e`/`:sp`/`:vs` ex-commands: spawn a new agent and graft it into
// the tree as a sibling of the focused pane.
func (d *Dispatcher) spawnSplit(at agent.AgentType, argv []string, vertical bool) error {
	if d.ctx.Spawn == nil {
		return nil
	}
	agentID, err := d.ctx.Spawn(at, argv)
	if err != nil {
		d.status("spawn failed: " + err.Error())
		return err
	}
	orient := layout.Horizontal
	if vertical {
		orient = layout.Vertical
	}
	paneID := agentID
	d.ctx.Tree.Split(orient, paneID, agentID)
	d.afterLayoutChange()
	return nil
}

func (d *Dispatcher) handleLayoutClose() {
	d.closeFocusedPane()
}

// closeFocusedPane closes the focused pane, killing its agent. If it was
// the last pane, the program exits with that agent's exit code (spec.md
// §4.5 / §6.1).
func (d *Dispatcher) closeFocusedPane() {
	info := d.ctx.Tree.FocusedPane()
	a := d.ctx.Agents[info.AgentID]

	if !d.ctx.Tree.CloseFocused() {
		code := 0
		if a != nil {
			code = a.ExitCode()
		}
		d.quit(code)
		return
	}

	d.forgetPane(info)
	d.afterLayoutChange()
}

func (d *Dispatcher) forgetPane(info layout.PaneInfo) {
	d.ctx.Compositor.ForgetPane(info.PaneID)
	d.ctx.Registers.Forget(info.AgentID)
	delete(d.cursors, info.AgentID)
	if d.ctx.Kill != nil {
		d.ctx.Kill(info.AgentID)
	}
	delete(d.ctx.Agents, info.AgentID)
}

func (d *Dispatcher) handleLayoutOnly() {
	keep := d.ctx.Tree.FocusedPane()
	for _, p := range d.ctx.Tree.AllPanes() {
		if p.ID == keep.ID {
			continue
		}
		d.forgetPane(p)
	}
	d.ctx.Tree.CloseOthers()
	d.afterLayoutChange()
}

func (d *Dispatcher) handleLayoutZoom() {
	d.ctx.Tree.ToggleZoom()
	d.afterLayoutChange()
}

func (d *Dispatcher) handleLayoutEqualize() {
	d.ctx.Tree.Equalize(0)
	d.afterLayoutChange()
}

func (d *Dispatcher) handleLayoutResizeHeight(a input.Action) {
	d.ctx.Tree.ResizeFocused(float64(a.Delta) * 0.05)
	d.afterLayoutChange()
}

func (d *Dispatcher) handleLayoutResizeWidth(a input.Action) {
	d.ctx.Tree.ResizeFocused(float64(a.Delta) * 0.05)
	d.afterLayoutChange()
}

func (d *Dispatcher) handleLayoutSwap() {
	d.ctx.Tree.SwapFocusedWithNext()
	d.afterLayoutChange()
}

func (d *Dispatcher) handleLayoutRotate() {
	d.ctx.Tree.RotateFocused(1)
	d.afterLayoutChange()
}

func (d *Dispatcher) quit(code int) {
	if d.ctx.Quit != nil {
		d.ctx.Quit(code)
	}
}
