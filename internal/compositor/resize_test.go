package compositor

import (
	"testing"

	"github.com/pashenkov/braid/internal/layout"
)

func TestTwoPhaseResizeTransitions(t *testing.T) {
	tree := layout.New("a", "agent-a")
	tree.ComputeBounds(layout.Rect{X: 0, Y: 0, Width: 80, Height: 24})
	c := New(tree, DefaultTuning())
	c.SyncPaneHeights()

	if c.ResizePhase() != ResizeIdle {
		t.Fatalf("expected idle before any resize")
	}

	c.BeginResize(func(paneID string) []string { return []string{"cached line"} })
	if c.ResizePhase() != ResizeCached {
		t.Fatalf("expected cached phase after BeginResize")
	}
	if got := c.CachedLines("a"); len(got) != 1 || got[0] != "cached line" {
		t.Fatalf("expected frame cache to hold the captured line, got %v", got)
	}

	c.ApplyResize(layout.Rect{X: 0, Y: 0, Width: 100, Height: 30}, func(paneID string, totalRows, cols, childRows int) int {
		return childRows
	})
	if c.ResizePhase() != ResizeReflowing {
		t.Fatalf("expected reflowing phase after ApplyResize")
	}

	if settled := c.SettleResize(); settled != true {
		t.Fatalf("expected settle to succeed once no pane is reflowing")
	}
	if c.ResizePhase() != ResizeIdle {
		t.Fatalf("expected idle phase after settling")
	}
	if got := c.CachedLines("a"); got != nil {
		t.Fatalf("expected frame cache to be discarded after settling, got %v", got)
	}
}

func TestSettleResizeWaitsForReflowingPanes(t *testing.T) {
	tree := layout.New("a", "agent-a")
	tree.ComputeBounds(layout.Rect{X: 0, Y: 0, Width: 80, Height: 24})
	c := New(tree, DefaultTuning())
	c.SyncPaneHeights()

	c.BeginResize(func(string) []string { return nil })
	c.ApplyResize(layout.Rect{X: 0, Y: 0, Width: 80, Height: 24}, func(string, int, int, int) int { return 24 })

	c.CheckOutputReflow("a", 500) // force pane "a" into reflowing
	if settled := c.SettleResize(); settled {
		t.Fatalf("expected settle to wait while a pane is still reflowing")
	}
	if c.ResizePhase() != ResizeReflowing {
		t.Fatalf("expected to remain in reflowing phase")
	}
}
