package compositor

import "github.com/pashenkov/braid/internal/layout"

// VisibleLinesFunc returns the currently visible styled lines for a pane,
// used to snapshot a frame cache before the layout changes underneath it.
type VisibleLinesFunc func(paneID string) []string

// ResizeFunc resizes one pane's PTY/VT pair to the given total/child row
// count and column width.
type ResizeFunc func(paneID string, totalRows, cols, childRows int) int // returns childRows reserved

// BeginResize runs phase 1 of the two-phase resize pipeline (spec.md
// §4.3.4): capture every pane's currently visible lines into the frame
// cache and transition to the cached phase, so an immediate redraw can use
// the cache while bounds and PTYs are still being updated.
func (c *Compositor) BeginResize(visible VisibleLinesFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.Tree.AllPanes() {
		lines := visible(p.PaneID)
		cached := make([]string, len(lines))
		copy(cached, lines)
		c.frameCache[p.PaneID] = cached
	}
	c.resizePhase = ResizeCached
}

// ApplyResize runs phase 2: recompute layout bounds for the new rect, then
// resize every pane's PTY/VT pair, and transition to the reflowing phase.
// Scroll state is preserved: panes that were following the tail stay
// pinned to the bottom; others keep their absolute offset, clamped to the
// new content height once it's known.
func (c *Compositor) ApplyResize(rect layout.Rect, resize ResizeFunc) {
	c.Tree.ComputeBounds(rect)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncPaneHeightsLocked()
	for _, p := range c.Tree.AllPanes() {
		childRows := resize(p.PaneID, p.Bounds.Height, p.Bounds.Width, p.Bounds.Height)
		ps := c.state(p.PaneID)
		ps.paneHeight = childRows
		if !ps.FollowTail {
			m := maxScroll(ps)
			if ps.ScrollOffset > m {
				ps.ScrollOffset = m
			}
		}
	}
	c.resizePhase = ResizeReflowing
}

// SettleResize runs phase 3→4: once no pane is in the reflowing phase (a
// reflowing pane returns to idle only when its own reflow timer fires),
// discard the frame cache and return to the idle resize phase. The caller is expected to invoke this from the same
// scheduleDraw tick that checks reflow state, once per tick, until it
// returns true.
func (c *Compositor) SettleResize() (settled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resizePhase != ResizeReflowing {
		return true
	}
	for _, ps := range c.panes {
		if ps.ReflowPhase != ReflowIdlePhase {
			return false
		}
	}
	c.resizePhase = ResizeIdle
	for k := range c.frameCache {
		delete(c.frameCache, k)
	}
	return true
}

// CachedLines returns the frame-cache snapshot for paneId, or nil if none
// is held (outside a resize, or for a pane created after BeginResize ran).
func (c *Compositor) CachedLines(paneID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameCache[paneID]
}
