package action

import (
	"strconv"
	"testing"

	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/bus"
	"github.com/pashenkov/braid/internal/compositor"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/layout"
	"github.com/pashenkov/braid/internal/overlay"
	"github.com/pashenkov/braid/internal/register"
)

// testFixture wires a minimal but real Context: real layout/compositor/
// register/bus/overlay collaborators, with Spawn/Kill/Quit replaced by test
// doubles so no child process is ever started.
type testFixture struct {
	ctx        *Context
	dispatcher *Dispatcher
	quitCode   int
	quitCalled bool
	spawned    []string
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	tree := layout.New("pane-1", "agent-1")
	conv := bus.NewConversationManager(0)
	f := &testFixture{}

	agents := map[string]*agent.Agent{
		"agent-1": newTestAgent("agent-1"),
	}

	ctx := &Context{
		Tree:       tree,
		Compositor: compositor.New(tree, compositor.DefaultTuning()),
		Router:     input.New(),
		Registers:  register.New(nil),
		Hub:        bus.NewHub("sess-1", conv),
		Convs:      conv,
		Overlays:   overlay.New(),
		Agents:     agents,
		SessionID:  "sess-1",
		Spawn: func(at agent.AgentType, argv []string) (string, error) {
			id := "agent-spawned-" + strconv.Itoa(len(f.spawned)+1)
			agents[id] = newTestAgent(id)
			f.spawned = append(f.spawned, id)
			return id, nil
		},
		Kill: func(agentID string) {},
		Quit: func(code int) {
			f.quitCalled = true
			f.quitCode = code
		},
		SetStatus: func(string) {},
	}
	f.ctx = ctx
	f.dispatcher = New(ctx)
	return f
}

func newTestAgent(id string) *agent.Agent {
	vt := agent.NewVT(24, 80)
	return agent.New(id, agent.NewGenericType("echo"), vt)
}

func TestDispatchLayoutSplitAddsPaneAndResizes(t *testing.T) {
	f := newFixture(t)
	err := f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit, Vertical: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.ctx.Tree.AllPanes()) != 2 {
		t.Fatalf("expected a second pane after split, got %d", len(f.ctx.Tree.AllPanes()))
	}
	if len(f.spawned) != 1 {
		t.Fatalf("expected spawnSplit to call Spawn once, got %d calls", len(f.spawned))
	}
}

func TestDispatchLayoutCloseQuitsWhenLastPane(t *testing.T) {
	f := newFixture(t)
	if err := f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutClose}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.quitCalled {
		t.Fatalf("expected closing the only pane to quit the process")
	}
}

func TestDispatchTabSwitchFocusesPaneByIndex(t *testing.T) {
	f := newFixture(t)
	if err := f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	panes := f.ctx.Tree.AllPanes()
	if err := f.dispatcher.Dispatch(input.Action{Type: input.ActionTabSwitch, Index: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ctx.Tree.FocusedPane().ID != panes[1].ID {
		t.Fatalf("expected pane 2 focused, got %+v", f.ctx.Tree.FocusedPane())
	}
}

func TestDispatchTabSwitchOutOfRangeIsNoop(t *testing.T) {
	f := newFixture(t)
	before := f.ctx.Tree.FocusedPane().ID
	if err := f.dispatcher.Dispatch(input.Action{Type: input.ActionTabSwitch, Index: 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ctx.Tree.FocusedPane().ID != before {
		t.Fatalf("expected focus unchanged for an out-of-range index")
	}
}

func TestDispatchHelpPushesHelpOverlay(t *testing.T) {
	f := newFixture(t)
	if err := f.dispatcher.Dispatch(input.Action{Type: input.ActionHelp}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ctx.Overlays.Top() == nil || f.ctx.Overlays.Top().Kind() != overlay.KindHelp {
		t.Fatalf("expected the help overlay to be on top")
	}
}

func TestDispatchModeSwitchUpdatesRouter(t *testing.T) {
	f := newFixture(t)
	if err := f.dispatcher.Dispatch(input.Action{Type: input.ActionModeSwitch, Mode: input.ModeInsert}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ctx.Router.Mode() != input.ModeInsert {
		t.Fatalf("expected router mode to switch to insert, got %v", f.ctx.Router.Mode())
	}
}
