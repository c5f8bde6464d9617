package aag

import (
	"maps"
	"slices"

	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

// Topology is the adapter that supplies the face id space and the raw
// shared-edge adjacency of a solid model.
type Topology interface {
	// FaceIDs returns the stable face ids (1..N, not necessarily dense).
	FaceIDs() []NodeID
	// Adjacency returns, for each face, the faces sharing an edge with it.
	// The relation may be given in one direction only; it is symmetrised.
	Adjacency() map[NodeID][]NodeID
}

// DihedralClassifier classifies the arc between two adjacent faces.
// It is implemented by the geometry oracle.
type DihedralClassifier interface {
	ClassifyDihedral(a, b NodeID) (Dihedral, error)
}

// Graph is an attributed adjacency graph over the faces of one topology
// snapshot. It owns the immutable master id space, a stack of adjacency
// views, node attributes and arc attributes.
//
// The zero value is not usable; create graphs with [New] or [Build].
// Graph is not safe for concurrent use.
type Graph struct {
	master    NodeSet
	views     []*View
	nodeAttrs *AttributeStore
	arcAttrs  map[Arc]Attribute
	version   uint64
}

// New creates a graph whose base view is the given adjacency.
//
// Every id must be positive and unique, adjacency may only reference ids in
// nodes, and a face cannot be adjacent to itself. Violations fail with
// INVALID_INPUT. Faces without neighbors are bound with an empty set.
func New(nodes []NodeID, adjacency map[NodeID][]NodeID) (*Graph, error) {
	g := &Graph{
		master:    make(NodeSet, len(nodes)),
		nodeAttrs: NewAttributeStore(),
		arcAttrs:  make(map[Arc]Attribute),
	}
	base := newView(0)
	for _, id := range nodes {
		if err := ferrors.ValidateNodeID(int(id)); err != nil {
			return nil, err
		}
		if g.master.Has(id) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "duplicate face id %d", id)
		}
		g.master.Add(id)
		base.adj[id] = make(NodeSet)
	}

	for _, a := range slices.Sorted(maps.Keys(adjacency)) {
		if !g.master.Has(a) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "adjacency references unknown face %d", a)
		}
		for _, b := range adjacency[a] {
			if !g.master.Has(b) {
				return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "face %d is adjacent to unknown face %d", a, b)
			}
			if a == b {
				return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "face %d cannot be adjacent to itself", a)
			}
			base.adj[a].Add(b)
			base.adj[b].Add(a)
		}
	}
	g.views = []*View{base}
	g.nodeAttrs.master = g.master
	return g, nil
}

// Build constructs the graph from a topology adapter and pre-populates the
// arc attributes with the dihedral classification of every adjacent pair.
// An oracle failure on an arc is not fatal: the arc is recorded as
// DihedralUndefined.
func Build(topo Topology, cls DihedralClassifier) (*Graph, error) {
	g, err := New(topo.FaceIDs(), topo.Adjacency())
	if err != nil {
		return nil, err
	}
	if cls == nil {
		return g, nil
	}
	for _, arc := range g.views[0].Arcs() {
		d, err := cls.ClassifyDihedral(arc.A, arc.B)
		if err != nil {
			d = Dihedral{Type: DihedralUndefined}
		}
		g.arcAttrs[arc] = &d
	}
	return g, nil
}

// current returns the top of the view stack.
func (g *Graph) current() *View { return g.views[len(g.views)-1] }

// View returns a handle on the current view.
func (g *Graph) View() *View { return g.current() }

// Base returns the bottom view, which always holds the full adjacency minus
// nodes removed while it was current.
func (g *Graph) Base() *View { return g.views[0] }

// Version returns a counter that changes on every structural mutation
// (push, pop, remove). Iterators use it to detect invalidation.
func (g *Graph) Version() uint64 { return g.version }

// InMaster reports whether id belongs to the master id space.
func (g *Graph) InMaster(id NodeID) bool { return g.master.Has(id) }

// MasterNodes returns the master id space in ascending order.
func (g *Graph) MasterNodes() []NodeID { return g.master.Sorted() }

// HasNode reports whether id is bound in the current view.
func (g *Graph) HasNode(id NodeID) bool { return g.current().HasNode(id) }

// Neighbors returns the neighbors of id in the current view.
// It fails with NOT_FOUND if id is unbound.
func (g *Graph) Neighbors(id NodeID) (NodeSet, error) { return g.current().Neighbors(id) }

// Nodes returns the nodes of the current view in ascending order.
func (g *Graph) Nodes() []NodeID { return g.current().Nodes() }

// NodeCount returns the number of nodes in the current view.
func (g *Graph) NodeCount() int { return g.current().NodeCount() }

// Arcs returns the arcs of the current view.
func (g *Graph) Arcs() []Arc { return g.current().Arcs() }

// ArcCount returns the number of arcs in the current view.
func (g *Graph) ArcCount() int { return g.current().ArcCount() }

// ConnectedComponents partitions seeds by connectivity in the current view.
// See [View.ConnectedComponents].
func (g *Graph) ConnectedComponents(seeds NodeSet) []NodeSet {
	return g.current().ConnectedComponents(seeds)
}

// Remove unbinds ids from the current view and purges their node attributes.
// Views lower in the stack are not affected. Arc attributes are kept because
// they describe history rather than current membership. Ids outside the master
// space fail with NOT_FOUND; ids already unbound are ignored.
func (g *Graph) Remove(ids ...NodeID) error {
	for _, id := range ids {
		if !g.master.Has(id) {
			return ferrors.New(ferrors.ErrCodeNotFound, "face %d is not in the master id space", id)
		}
	}
	cur := g.current()
	for _, id := range ids {
		cur.remove(id)
		g.nodeAttrs.Purge(id)
	}
	g.version++
	return nil
}

// Attrs returns the node attribute store.
func (g *Graph) Attrs() *AttributeStore { return g.nodeAttrs }

// ArcAttr returns the attribute bound to the arc between a and b.
func (g *Graph) ArcAttr(a, b NodeID) (Attribute, bool) {
	attr, ok := g.arcAttrs[NewArc(a, b)]
	return attr, ok
}

// SetArcAttr binds attr to the arc between a and b. Like node attributes it
// is first-write-wins: it returns false if the arc already holds a value.
// Both endpoints must belong to the master id space.
func (g *Graph) SetArcAttr(a, b NodeID, attr Attribute) bool {
	if !g.master.Has(a) || !g.master.Has(b) || a == b {
		return false
	}
	arc := NewArc(a, b)
	if _, ok := g.arcAttrs[arc]; ok {
		return false
	}
	g.arcAttrs[arc] = attr
	return true
}

// RemoveArcAttr unbinds the arc attribute and reports whether one was bound.
func (g *Graph) RemoveArcAttr(a, b NodeID) bool {
	arc := NewArc(a, b)
	if _, ok := g.arcAttrs[arc]; !ok {
		return false
	}
	delete(g.arcAttrs, arc)
	return true
}

// Dihedral returns the dihedral classification of the arc between a and b.
func (g *Graph) Dihedral(a, b NodeID) (*Dihedral, bool) {
	attr, ok := g.ArcAttr(a, b)
	if !ok {
		return nil, false
	}
	d, ok := attr.(*Dihedral)
	return d, ok
}

// DihedralKind returns the dihedral kind of the arc between a and b, or
// DihedralUndefined if none was recorded.
func (g *Graph) DihedralKind(a, b NodeID) DihedralKind {
	if d, ok := g.Dihedral(a, b); ok {
		return d.Type
	}
	return DihedralUndefined
}

// Copy returns a deep copy of the graph: every view, node attribute and arc
// attribute is duplicated, so mutating the copy never affects the original.
func (g *Graph) Copy() *Graph {
	c := &Graph{
		master:    g.master.Clone(),
		views:     make([]*View, len(g.views)),
		nodeAttrs: g.nodeAttrs.Clone(),
		arcAttrs:  make(map[Arc]Attribute, len(g.arcAttrs)),
		version:   g.version,
	}
	c.nodeAttrs.master = c.master
	for i, v := range g.views {
		c.views[i] = v.clone()
	}
	for arc, attr := range g.arcAttrs {
		c.arcAttrs[arc] = attr.Clone()
	}
	return c
}
