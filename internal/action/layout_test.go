package action

import (
	"testing"

	"github.com/pashenkov/braid/internal/input"
)

func TestDispatchLayoutZoomTogglesZoom(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit})

	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutZoom})
	if !f.ctx.Tree.IsZoomed() {
		t.Fatalf("expected the tree to report zoomed")
	}
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutZoom})
	if f.ctx.Tree.IsZoomed() {
		t.Fatalf("expected the second zoom toggle to unzoom")
	}
}

func TestDispatchLayoutSwapExchangesPaneContent(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit})
	before := f.ctx.Tree.AllPanes()
	focusedNodeBefore := f.ctx.Tree.FocusedPane().ID
	focusedAgentBefore := f.ctx.Tree.FocusedPane().AgentID

	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSwap})

	after := f.ctx.Tree.AllPanes()
	if len(after) != len(before) {
		t.Fatalf("swap must not change pane count")
	}
	focused := f.ctx.Tree.FocusedPane()
	if focused.ID != focusedNodeBefore {
		t.Fatalf("swap must not move focus to a different tree position")
	}
	if focused.AgentID == focusedAgentBefore {
		t.Fatalf("swap must exchange content between the two panes")
	}
}

func TestDispatchLayoutOnlyClosesEveryOtherPane(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit})
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit})
	if len(f.ctx.Tree.AllPanes()) < 3 {
		t.Fatalf("expected at least 3 panes before :only, got %d", len(f.ctx.Tree.AllPanes()))
	}

	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutOnly})

	if len(f.ctx.Tree.AllPanes()) != 1 {
		t.Fatalf("expected a single pane after :only, got %d", len(f.ctx.Tree.AllPanes()))
	}
	if len(f.ctx.Agents) != 1 {
		t.Fatalf("expected forgotten panes' agents removed, got %d", len(f.ctx.Agents))
	}
}

func TestDispatchLayoutCloseKillsAgentAndKeepsOthers(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit})
	killed := f.ctx.Tree.FocusedPane().AgentID

	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutClose})

	if f.quitCalled {
		t.Fatalf("closing one of two panes must not quit the process")
	}
	if _, ok := f.ctx.Agents[killed]; ok {
		t.Fatalf("expected the closed pane's agent forgotten")
	}
	if len(f.ctx.Tree.AllPanes()) != 1 {
		t.Fatalf("expected one remaining pane, got %d", len(f.ctx.Tree.AllPanes()))
	}
}
