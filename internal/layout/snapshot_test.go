package layout

import "testing"

func TestSnapshotRoundTripPreservesShapeAndFocus(t *testing.T) {
	tr := New("a", "agent-a")
	tr.Split(Vertical, "b", "agent-b")
	tr.Split(Horizontal, "c", "agent-c")
	tr.ResizeFocused(0.1)

	wantFocused := tr.Focused()
	wantPanes := tr.AllPanes()

	restored := FromSnapshot(tr.Snapshot())

	if restored.Root() != tr.Root() {
		t.Fatalf("root mismatch: got %v want %v", restored.Root(), tr.Root())
	}
	if restored.Focused() != wantFocused {
		t.Fatalf("focused mismatch: got %v want %v", restored.Focused(), wantFocused)
	}
	gotPanes := restored.AllPanes()
	if len(gotPanes) != len(wantPanes) {
		t.Fatalf("pane count mismatch: got %d want %d", len(gotPanes), len(wantPanes))
	}
	byID := make(map[string]PaneInfo, len(gotPanes))
	for _, p := range gotPanes {
		byID[p.PaneID] = p
	}
	for _, want := range wantPanes {
		got, ok := byID[want.PaneID]
		if !ok {
			t.Fatalf("pane %q missing after restore", want.PaneID)
		}
		if got.AgentID != want.AgentID {
			t.Fatalf("pane %q agent mismatch: got %q want %q", want.PaneID, got.AgentID, want.AgentID)
		}
	}
}

func TestSnapshotPreservesZoomState(t *testing.T) {
	tr := New("a", "agent-a")
	tr.Split(Vertical, "b", "agent-b")
	tr.ToggleZoom()
	if !tr.IsZoomed() {
		t.Fatalf("expected zoomed after ToggleZoom")
	}

	restored := FromSnapshot(tr.Snapshot())
	if !restored.IsZoomed() {
		t.Fatalf("expected restored tree to still be zoomed")
	}
	restored.ToggleZoom()
	if restored.IsZoomed() {
		t.Fatalf("expected un-zoom to work after restore")
	}
}
