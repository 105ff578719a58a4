package compositor

// ScrollPane adjusts paneId's scrollOffset by delta (negative scrolls up
// toward older content), clamped to [0, maxScroll]. Within 2 cells of the
// bottom it re-engages follow-tail and releases the scroll lock; otherwise
// it engages the scroll lock and disengages follow-tail — tmux-copy-mode
// semantics per spec.md §4.3.2.
func (c *Compositor) ScrollPane(paneID string, delta int) {
	const followSnapDistance = 2

	c.mu.Lock()
	defer c.mu.Unlock()
	ps := c.state(paneID)

	max := maxScroll(ps)
	next := ps.ScrollOffset + delta
	if next < 0 {
		next = 0
	}
	if next > max {
		next = max
	}
	ps.ScrollOffset = next

	if max-next <= followSnapDistance {
		ps.FollowTail = true
		ps.ScrollLock = false
	} else {
		ps.FollowTail = false
		ps.ScrollLock = true
	}
}

// ScrollOffset returns paneId's current scroll offset.
func (c *Compositor) ScrollOffset(paneID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(paneID).ScrollOffset
}

// IsFollowingTail reports whether paneId is currently pinned to the bottom.
func (c *Compositor) IsFollowingTail(paneID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(paneID).FollowTail
}
