package action

import (
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/overlay"
)

// Dispatch turns one input.Action into its effect, per spec.md §4.5. It
// never blocks on anything but the focused child's write (bounded by
// writeTimeout), so it can safely run on the host's event loop goroutine.
func (d *Dispatcher) Dispatch(a input.Action) error {
	switch a.Type {
	case input.ActionNone:
	case input.ActionForward:
		d.writeToFocused(a.Bytes)
	case input.ActionModeSwitch:
		d.ctx.Router.SetMode(a.Mode)

	case input.ActionTabSwitch:
		d.switchToPaneIndex(a.Index)
	case input.ActionTabNext:
		d.ctx.Tree.CycleFocus(1)
	case input.ActionTabPrev:
		d.ctx.Tree.CycleFocus(-1)

	case input.ActionSearchBegin:
		d.ctx.Router.SetMode(input.ModeSearch)
	case input.ActionSearchSubmit:
		d.handleSearchSubmit(string(a.Bytes), a.Forward)
		d.ctx.Router.SetMode(input.ModeNormal)
	case input.ActionSearchCancel:
		d.ctx.Router.SetMode(input.ModeNormal)

	case input.ActionExCommandBegin:
		d.ctx.Router.SetMode(input.ModeCommand)
	case input.ActionExCommandSubmit:
		d.ctx.Router.SetMode(input.ModeNormal)
		d.handleExCommandSubmit(string(a.Bytes))
	case input.ActionExCommandCancel:
		d.ctx.Router.SetMode(input.ModeNormal)

	case input.ActionQuit:
		d.closeFocusedPane()
	case input.ActionForceQuit:
		d.quit(0)
	case input.ActionSave:
		return d.exSave(nil)
	case input.ActionHelp:
		d.ctx.Overlays.Push(overlay.NewHelp())

	case input.ActionMotion:
		d.handleMotion(a)
	case input.ActionPaste:
		d.handlePaste(a)

	case input.ActionLayoutFocus:
		d.handleLayoutFocus(a)
	case input.ActionLayoutCycle:
		d.handleLayoutCycle(a)
	case input.ActionLayoutSplit:
		d.handleLayoutSplit(a)
	case input.ActionLayoutClose:
		d.handleLayoutClose()
	case input.ActionLayoutOnly:
		d.handleLayoutOnly()
	case input.ActionLayoutZoom:
		d.handleLayoutZoom()
	case input.ActionLayoutEqualize:
		d.handleLayoutEqualize()
	case input.ActionLayoutResizeHeight:
		d.handleLayoutResizeHeight(a)
	case input.ActionLayoutResizeWidth:
		d.handleLayoutResizeWidth(a)
	case input.ActionLayoutSwap:
		d.handleLayoutSwap()
	case input.ActionLayoutRotate:
		d.handleLayoutRotate()

	case input.ActionIPCCompose:
		d.handleIPCCompose(a)
	case input.ActionFIPAPerformative:
		d.handleFIPAPerformative(a)
	case input.ActionFIPAList:
		d.handleFIPAList()
	case input.ActionFIPAView:
		d.handleFIPAView()
	case input.ActionFIPACancel:
		d.handleFIPACancel()
	case input.ActionFIPAStyle:
		d.handleFIPAStyle(a)
	case input.ActionFIPAHelp:
		d.handleFIPAHelp()
	}
	return nil
}

// switchToPaneIndex focuses the Nth pane in document order (1-based, per
// the `1`..`9` tab keybindings); out-of-range indices are a no-op. Braid
// has no separate tab/workspace concept, so "tab N" addresses the Nth pane.
func (d *Dispatcher) switchToPaneIndex(index int) {
	panes := d.ctx.Tree.AllPanes()
	if index < 1 || index > len(panes) {
		return
	}
	d.ctx.Tree.FocusPane(panes[index-1].ID)
}
