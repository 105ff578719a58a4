package layout

// NodeSnapshot is the serializable form of one arena node, used to persist
// and restore a Tree across process restarts (spec.md §4.8 SessionStore).
type NodeSnapshot struct {
	ID          NodeId
	Parent      NodeId
	Orientation Orientation
	Children    []NodeId
	Ratios      []float64
	PaneID      string
	AgentID     string
}

// TreeSnapshot is the serializable form of an entire Tree.
type TreeSnapshot struct {
	Nodes     []NodeSnapshot
	Root      NodeId
	Focused   NodeId
	Zoomed    bool
	SavedRoot NodeId
	NextID    NodeId
}

// Snapshot captures the Tree's full arena state for persistence.
func (t *Tree) Snapshot() TreeSnapshot {
	snap := TreeSnapshot{
		Root:      t.root,
		Focused:   t.focused,
		Zoomed:    t.zoomed,
		SavedRoot: t.savedRoot,
		NextID:    t.nextID,
	}
	for id, n := range t.nodes {
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:          id,
			Parent:      n.parent,
			Orientation: n.orient,
			Children:    append([]NodeId(nil), n.children...),
			Ratios:      append([]float64(nil), n.ratios...),
			PaneID:      n.paneID,
			AgentID:     n.agentID,
		})
	}
	return snap
}

// FromSnapshot rebuilds a Tree from a previously captured TreeSnapshot.
func FromSnapshot(snap TreeSnapshot) *Tree {
	t := &Tree{
		nodes:     make(map[NodeId]*node, len(snap.Nodes)),
		nextID:    snap.NextID,
		root:      snap.Root,
		focused:   snap.Focused,
		zoomed:    snap.Zoomed,
		savedRoot: snap.SavedRoot,
	}
	for _, ns := range snap.Nodes {
		t.nodes[ns.ID] = &node{
			id:       ns.ID,
			parent:   ns.Parent,
			orient:   ns.Orientation,
			children: ns.Children,
			ratios:   ns.Ratios,
			paneID:   ns.PaneID,
			agentID:  ns.AgentID,
		}
	}
	return t
}
