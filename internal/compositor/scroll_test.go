package compositor

import (
	"testing"

	"github.com/pashenkov/braid/internal/layout"
)

func newTestCompositor(t *testing.T) (*Compositor, string) {
	t.Helper()
	tree := layout.New("a", "agent-a")
	tree.ComputeBounds(layout.Rect{X: 0, Y: 0, Width: 80, Height: 24})
	c := New(tree, DefaultTuning())
	c.SyncPaneHeights()
	return c, "a"
}

func TestScrollPaneClampsToMaxScroll(t *testing.T) {
	c, pane := newTestCompositor(t)
	c.CheckOutputReflow(pane, 10) // small delta from 0, no reflow trigger since paneHeight>=10? paneHeight=24>10 so delta(10)<=24, fine
	c.mu.Lock()
	c.state(pane).LastContentHeight = 100
	c.mu.Unlock()

	c.ScrollPane(pane, -1000)
	if got := c.ScrollOffset(pane); got != 0 {
		t.Fatalf("expected scroll clamp at 0, got %d", got)
	}

	c.ScrollPane(pane, 1000)
	want := 100 - 24
	if got := c.ScrollOffset(pane); got != want {
		t.Fatalf("expected scroll clamp at max %d, got %d", want, got)
	}
}

func TestScrollingAwayFromBottomEngagesLock(t *testing.T) {
	c, pane := newTestCompositor(t)
	c.mu.Lock()
	c.state(pane).LastContentHeight = 100
	c.mu.Unlock()

	c.ScrollPane(pane, -50)
	if c.IsFollowingTail(pane) {
		t.Fatalf("expected follow-tail to disengage after scrolling away from bottom")
	}

	// Scroll back within 2 cells of the bottom.
	c.ScrollPane(pane, 1000)
	if !c.IsFollowingTail(pane) {
		t.Fatalf("expected follow-tail to re-engage at the bottom")
	}
}
