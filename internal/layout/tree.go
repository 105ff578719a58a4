// Package layout implements the binary split tree of panes (C1): an
// arena-allocated set of nodes indexed by integer NodeId, integer-
// proportional bounds computed via the largest-remainder method, zoom,
// and directional focus.
//
// There are no Go pointers between nodes: every inter-node reference,
// including each node's parent, is a NodeId looked up in the arena, so
// the nodes never form a cyclic ownership graph.
package layout

import "fmt"

// Orientation is the split direction of a Container.
type Orientation int

const (
	Horizontal Orientation = iota // children stacked top-to-bottom
	Vertical                      // children arranged left-to-right
)

// NodeId identifies a node in the Tree's arena. The zero value never
// identifies a live node.
type NodeId int

// Rect is an integer-bounded rectangle in terminal cell coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Direction is a cardinal direction used by directional focus movement.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// node is either a Container (Children non-nil) or a Pane (Children nil).
type node struct {
	id       NodeId
	parent   NodeId // zero means root
	orient   Orientation
	children []NodeId
	ratios   []float64
	bounds   Rect

	paneID  string // stable external identifier, only set on Pane leaves
	agentID string // weak reference to the owning agent, only set on Pane leaves
}

func (n *node) isPane() bool { return n.children == nil }

// Tree is the arena-backed layout tree described in spec.md §4.1.
type Tree struct {
	nodes     map[NodeId]*node
	nextID    NodeId
	root      NodeId
	savedRoot NodeId // non-zero while zoomed; holds the pre-zoom root
	zoomed    bool
	focused   NodeId
}

// New creates a Tree with a single root Pane bound to agentID.
func New(paneID, agentID string) *Tree {
	t := &Tree{nodes: make(map[NodeId]*node)}
	root := t.newPane(paneID, agentID, 0)
	t.root = root
	t.focused = root
	return t
}

func (t *Tree) newPane(paneID, agentID string, parent NodeId) NodeId {
	t.nextID++
	id := t.nextID
	t.nodes[id] = &node{id: id, parent: parent, paneID: paneID, agentID: agentID}
	return id
}

func (t *Tree) newContainer(orient Orientation, parent NodeId, children []NodeId, ratios []float64) NodeId {
	t.nextID++
	id := t.nextID
	t.nodes[id] = &node{id: id, parent: parent, orient: orient, children: children, ratios: ratios}
	for _, c := range children {
		t.nodes[c].parent = id
	}
	return id
}

func (t *Tree) get(id NodeId) *node {
	n, ok := t.nodes[id]
	if !ok {
		panic(fmt.Sprintf("layout: dangling NodeId %d", id))
	}
	return n
}

// Root returns the current root node id (the zoomed pane while zoomed).
func (t *Tree) Root() NodeId { return t.root }

// Focused returns the currently focused pane's NodeId.
func (t *Tree) Focused() NodeId { return t.focused }

// PaneInfo describes a leaf for callers outside this package.
type PaneInfo struct {
	ID      NodeId
	PaneID  string
	AgentID string
	Bounds  Rect
}

// Pane returns the PaneInfo for id. ok is false if id is not a live pane.
func (t *Tree) Pane(id NodeId) (PaneInfo, bool) {
	n, ok := t.nodes[id]
	if !ok || !n.isPane() {
		return PaneInfo{}, false
	}
	return PaneInfo{ID: n.id, PaneID: n.paneID, AgentID: n.agentID, Bounds: n.bounds}, true
}

// FocusedPane returns the PaneInfo for the focused pane.
func (t *Tree) FocusedPane() PaneInfo {
	info, ok := t.Pane(t.focused)
	if !ok {
		panic("layout: focused node is not a pane")
	}
	return info
}

// AllPanes returns every live pane in left-to-right / top-to-bottom
// document order. Per spec.md §8, an empty tree is never reachable after
// New — the only way to empty it is CloseFocused refusing on the last
// pane — so this is never empty in practice, but callers may still see
// an empty slice defensively.
func (t *Tree) AllPanes() []PaneInfo {
	var out []PaneInfo
	var walk func(id NodeId)
	walk = func(id NodeId) {
		n := t.get(id)
		if n.isPane() {
			out = append(out, PaneInfo{ID: n.id, PaneID: n.paneID, AgentID: n.agentID, Bounds: n.bounds})
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// Split replaces the focused Pane with a new Container of orientation o,
// whose children are the original pane and a new pane bound to
// newAgentID. Focus moves to the new pane. Returns the new pane's NodeId.
func (t *Tree) Split(o Orientation, newPaneID, newAgentID string) NodeId {
	focused := t.get(t.focused)
	if !focused.isPane() {
		panic("layout: focused node is not a pane")
	}

	parentID := focused.parent
	newPane := t.newPane(newPaneID, newAgentID, parentID)
	container := t.newContainer(o, parentID, []NodeId{focused.id, newPane}, []float64{0.5, 0.5})

	if parentID == 0 {
		t.root = container
	} else {
		parent := t.get(parentID)
		for i, c := range parent.children {
			if c == focused.id {
				parent.children[i] = container
			}
		}
	}
	focused.parent = container
	t.focused = newPane
	return newPane
}

// CloseFocused closes the focused pane, collapsing its parent Container:
// the remaining sibling replaces the parent in the grandparent (or
// becomes the new root). Returns false if the focused pane is the only
// pane in the tree — the caller must treat that as "quit the program".
func (t *Tree) CloseFocused() bool {
	return t.closePane(t.focused)
}

func (t *Tree) closePane(id NodeId) bool {
	n := t.get(id)
	if n.parent == 0 {
		// id is the root — only pane in the tree.
		return false
	}
	parent := t.get(n.parent)

	var siblingID NodeId
	for _, c := range parent.children {
		if c != id {
			siblingID = c
		}
	}
	// Binary containers only ever have two children in this model
	// (every split produces exactly two), so removing one always leaves
	// exactly one sibling to promote.
	sibling := t.get(siblingID)
	grandparent := parent.parent
	sibling.parent = grandparent

	if grandparent == 0 {
		t.root = siblingID
	} else {
		gp := t.get(grandparent)
		for i, c := range gp.children {
			if c == parent.id {
				gp.children[i] = siblingID
			}
		}
	}

	delete(t.nodes, id)
	delete(t.nodes, parent.id)

	if t.focused == id {
		t.focused = firstPane(t, siblingID)
	}
	return true
}

func firstPane(t *Tree, id NodeId) NodeId {
	n := t.get(id)
	for !n.isPane() {
		n = t.get(n.children[0])
	}
	return n.id
}

// CloseOthers closes every pane except the focused one, making the
// focused pane the new root.
func (t *Tree) CloseOthers() {
	focused := t.get(t.focused)
	keep := focused.id
	for id := range t.nodes {
		if id != keep {
			delete(t.nodes, id)
		}
	}
	focused.parent = 0
	t.root = keep
}

// Equalize resets every ratio under node (or the whole tree if node is 0)
// to an even split among siblings.
func (t *Tree) Equalize(start NodeId) {
	if start == 0 {
		start = t.root
	}
	var walk func(id NodeId)
	walk = func(id NodeId) {
		n := t.get(id)
		if n.isPane() {
			return
		}
		even := 1.0 / float64(len(n.children))
		for i := range n.ratios {
			n.ratios[i] = even
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(start)
}

// ResizeFocused adjusts the ratio of the focused pane within its
// immediate parent Container by delta, stealing the complement from its
// sibling. Ratios are clamped to [0.05, 0.95] to keep both children
// visible.
func (t *Tree) ResizeFocused(delta float64) {
	focused := t.get(t.focused)
	if focused.parent == 0 {
		return
	}
	parent := t.get(focused.parent)
	idx := -1
	for i, c := range parent.children {
		if c == focused.id {
			idx = i
		}
	}
	if idx == -1 || len(parent.ratios) != 2 {
		return
	}
	other := 1 - idx
	next := parent.ratios[idx] + delta
	if next < 0.05 {
		next = 0.05
	}
	if next > 0.95 {
		next = 0.95
	}
	parent.ratios[other] = parent.ratios[idx] + parent.ratios[other] - next
	parent.ratios[idx] = next
}

// ResizeBorderAt adjusts the ratio of whichever Container border is
// nearest (x, y) in the given orientation by delta. Used by mouse-wheel
// border dragging (spec.md §4.9).
func (t *Tree) ResizeBorderAt(x, y int, o Orientation, delta float64) {
	var found NodeId
	var walk func(id NodeId)
	walk = func(id NodeId) {
		n := t.get(id)
		if n.isPane() {
			return
		}
		if n.orient == o && borderNear(n.bounds, o, x, y) {
			found = id
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	if found == 0 {
		return
	}
	n := t.get(found)
	if len(n.ratios) != 2 {
		return
	}
	next := n.ratios[0] + delta
	if next < 0.05 {
		next = 0.05
	}
	if next > 0.95 {
		next = 0.95
	}
	n.ratios[1] = n.ratios[0] + n.ratios[1] - next
	n.ratios[0] = next
}

func borderNear(r Rect, o Orientation, x, y int) bool {
	if o == Vertical {
		return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
	}
	return y >= r.Y && y < r.Y+r.Height && x >= r.X && x < r.X+r.Width
}

// FindPaneAt returns the pane whose bounds contain (x, y).
func (t *Tree) FindPaneAt(x, y int) (PaneInfo, bool) {
	for _, p := range t.AllPanes() {
		if x >= p.Bounds.X && x < p.Bounds.X+p.Bounds.Width &&
			y >= p.Bounds.Y && y < p.Bounds.Y+p.Bounds.Height {
			return p, true
		}
	}
	return PaneInfo{}, false
}

// FindPaneInDirection returns the pane best reached from the focused pane
// by moving in direction dir, without mutating focus. Candidates are
// restricted to those whose center lies on the matching dominant axis,
// and ties are broken by minimum Manhattan distance.
func (t *Tree) FindPaneInDirection(dir Direction) (PaneInfo, bool) {
	focused := t.FocusedPane()
	fcx, fcy := center(focused.Bounds)

	var best PaneInfo
	bestDist := -1
	for _, p := range t.AllPanes() {
		if p.ID == focused.ID {
			continue
		}
		cx, cy := center(p.Bounds)
		dx, dy := cx-fcx, cy-fcy
		switch dir {
		case DirLeft:
			if dx >= 0 {
				continue
			}
		case DirRight:
			if dx <= 0 {
				continue
			}
		case DirUp:
			if dy >= 0 {
				continue
			}
		case DirDown:
			if dy <= 0 {
				continue
			}
		}
		// Dominant axis must match the requested direction.
		horizontal := dir == DirLeft || dir == DirRight
		if horizontal && abs(dx) < abs(dy) {
			continue
		}
		if !horizontal && abs(dy) < abs(dx) {
			continue
		}
		dist := abs(dx) + abs(dy)
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = p
		}
	}
	if bestDist == -1 {
		return PaneInfo{}, false
	}
	return best, true
}

// CycleFocus moves focus to the next (delta=+1) or previous (delta=-1)
// pane in document order, wrapping around.
func (t *Tree) CycleFocus(delta int) {
	panes := t.AllPanes()
	if len(panes) < 2 {
		return
	}
	idx := 0
	for i, p := range panes {
		if p.ID == t.focused {
			idx = i
		}
	}
	idx = ((idx+delta)%len(panes) + len(panes)) % len(panes)
	t.focused = panes[idx].ID
}

// FocusPane sets focus directly to the given NodeId, if it names a live pane.
func (t *Tree) FocusPane(id NodeId) bool {
	n, ok := t.nodes[id]
	if !ok || !n.isPane() {
		return false
	}
	t.focused = id
	return true
}

// SwapFocusedWithNext exchanges the focused pane's paneID/agentID with the
// next pane in document order (wrapping around), leaving the tree shape and
// focus untouched. A no-op when only one pane exists.
func (t *Tree) SwapFocusedWithNext() {
	panes := t.AllPanes()
	if len(panes) < 2 {
		return
	}
	idx := -1
	for i, p := range panes {
		if p.ID == t.focused {
			idx = i
		}
	}
	if idx == -1 {
		return
	}
	next := (idx + 1) % len(panes)
	a := t.get(panes[idx].ID)
	b := t.get(panes[next].ID)
	a.paneID, b.paneID = b.paneID, a.paneID
	a.agentID, b.agentID = b.agentID, a.agentID
}

// RotateFocused cyclically shifts every pane's paneID/agentID by delta
// positions in document order, keeping the tree shape and focus fixed.
// delta=+1 moves each pane's content into the next slot; delta=-1 into the
// previous one.
func (t *Tree) RotateFocused(delta int) {
	panes := t.AllPanes()
	n := len(panes)
	if n < 2 {
		return
	}
	paneIDs := make([]string, n)
	agentIDs := make([]string, n)
	for i, p := range panes {
		paneIDs[i] = p.PaneID
		agentIDs[i] = p.AgentID
	}
	for i, p := range panes {
		src := ((i-delta)%n + n) % n
		node := t.get(p.ID)
		node.paneID = paneIDs[src]
		node.agentID = agentIDs[src]
	}
}

// ToggleZoom zooms into the focused pane (replacing the root with a fresh
// single-pane view of it) or, if already zoomed, restores the saved root.
// Zoom is a view transformation only — no Agent state moves.
func (t *Tree) ToggleZoom() {
	if t.zoomed {
		t.root = t.savedRoot
		t.savedRoot = 0
		t.zoomed = false
		return
	}
	t.savedRoot = t.root
	focused := t.get(t.focused)
	t.root = focused.id
	focused.parent = 0
	t.zoomed = true
}

// IsZoomed reports whether the tree is currently zoomed.
func (t *Tree) IsZoomed() bool { return t.zoomed }

func center(r Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
