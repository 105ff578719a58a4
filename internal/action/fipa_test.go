package action

import (
	"testing"
	"time"

	"github.com/pashenkov/braid/internal/bus"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/overlay"
)

func TestProtocolForMapsPerformativesToProtocols(t *testing.T) {
	cases := map[bus.Performative]bus.Protocol{
		bus.CFP:     bus.ProtocolContractNet,
		bus.Propose: bus.ProtocolContractNet,
		bus.Subscribe: bus.ProtocolSubscribe,
		bus.QueryIf: bus.ProtocolQuery,
		bus.Request: bus.ProtocolRequest,
		bus.Inform: bus.ProtocolRequest,
	}
	for p, want := range cases {
		if got := protocolFor(p); got != want {
			t.Fatalf("protocolFor(%s) = %s, want %s", p, got, want)
		}
	}
}

func TestHandleFIPAPerformativeOpensComposerForMappedLetter(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionFIPAPerformative, Performative: "CFP"})

	top := f.ctx.Overlays.Top()
	if top == nil || top.Kind() != overlay.KindACLComposer {
		t.Fatalf("expected an ACLComposer pushed for a known performative")
	}
}

func TestHandleFIPAPerformativeIgnoresUnknownLetter(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionFIPAPerformative, Performative: "BOGUS"})
	if f.ctx.Overlays.Active() {
		t.Fatalf("expected no overlay pushed for an unrecognized performative")
	}
}

func TestHandleIPCComposeTargetsPaneByDigit(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionLayoutSplit})
	panes := f.ctx.Tree.AllPanes()

	f.dispatcher.Dispatch(input.Action{Type: input.ActionIPCCompose, Direction: '2'})

	composer, ok := f.ctx.Overlays.Top().(*overlay.ACLComposer)
	if !ok {
		t.Fatalf("expected an ACLComposer on top")
	}
	lines := composer.Render(40, 10)
	if !containsSubstr(lines, panes[1].AgentID) {
		t.Fatalf("expected composer pre-targeted at pane 2's agent %q, got %v", panes[1].AgentID, lines)
	}
}

func containsSubstr(lines []string, needle string) bool {
	for _, l := range lines {
		if len(needle) > 0 && indexOf(l, needle) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestHandleFIPAListPushesConvPicker(t *testing.T) {
	f := newFixture(t)
	f.ctx.Convs.GetOrCreate("conv-1", bus.ProtocolRequest, []string{"agent-1", "agent-2"}, true)

	f.dispatcher.Dispatch(input.Action{Type: input.ActionFIPAList})

	if f.ctx.Overlays.Top() == nil || f.ctx.Overlays.Top().Kind() != overlay.KindConvPicker {
		t.Fatalf("expected a ConvPicker pushed")
	}
}

func TestHandleFIPAViewFindsMostRecentConversationForFocusedAgent(t *testing.T) {
	f := newFixture(t)
	f.ctx.Convs.GetOrCreate("conv-old", bus.ProtocolRequest, []string{"agent-1", "other"}, true)
	time.Sleep(time.Millisecond)
	f.ctx.Convs.GetOrCreate("conv-new", bus.ProtocolRequest, []string{"agent-1", "other"}, true)

	f.dispatcher.Dispatch(input.Action{Type: input.ActionFIPAView})

	viewer, ok := f.ctx.Overlays.Top().(*overlay.ACLViewer)
	if !ok {
		t.Fatalf("expected an ACLViewer pushed")
	}
	_ = viewer
}

func TestHandleFIPACancelPopsActiveOverlay(t *testing.T) {
	f := newFixture(t)
	f.ctx.Overlays.Push(overlay.NewHelp())
	f.dispatcher.Dispatch(input.Action{Type: input.ActionFIPACancel})
	if f.ctx.Overlays.Active() {
		t.Fatalf("expected the overlay to be popped")
	}
}

func TestHandleFIPAStyleSetsPromptStyle(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.Dispatch(input.Action{Type: input.ActionFIPAStyle, Style: "natural"})
	if f.ctx.PromptStyle != bus.StyleNatural {
		t.Fatalf("expected prompt style natural, got %v", f.ctx.PromptStyle)
	}
}

func TestHandleOverlayResultSendsComposedMessage(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.HandleOverlayResult(overlay.KindACLComposer, overlay.ACLMessageDraft{
		Performative: bus.Request, To: "agent-2", Content: "please build",
	})
	if len(f.ctx.Convs.All()) != 1 {
		t.Fatalf("expected a FIPA send to create a tracked conversation, got %d", len(f.ctx.Convs.All()))
	}
}

func TestHandleOverlayResultIPCComposeSkipsConversationTracking(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.handleIPCCompose(input.Action{Direction: '1'})
	f.dispatcher.HandleOverlayResult(overlay.KindACLComposer, overlay.ACLMessageDraft{
		Performative: bus.Inform, To: "agent-1", Content: "hi",
	})
	if len(f.ctx.Convs.All()) != 0 {
		t.Fatalf("expected an IPC send to skip ConversationManager, got %d conversations", len(f.ctx.Convs.All()))
	}
}
