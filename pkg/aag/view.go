package aag

import (
	"cmp"
	"maps"
	"slices"

	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

// View is one level of the adjacency stack: a mapping from each bound node
// to its neighbor set. A node can be bound with an empty neighbor set, which
// is distinct from being unbound.
//
// Views obtained from [Graph.View] stay valid until the graph is mutated
// structurally; they must not be retained across [Graph.Remove].
type View struct {
	adj   map[NodeID]NodeSet
	level int
}

func newView(level int) *View {
	return &View{adj: make(map[NodeID]NodeSet), level: level}
}

// Level returns the position of the view in the stack (0 = base view).
func (v *View) Level() int { return v.level }

// HasNode reports whether id is bound in the view.
func (v *View) HasNode(id NodeID) bool {
	_, ok := v.adj[id]
	return ok
}

// Neighbors returns a copy of the neighbor set of id.
// It fails with NOT_FOUND if id is unbound in the view.
func (v *View) Neighbors(id NodeID) (NodeSet, error) {
	n, ok := v.adj[id]
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeNotFound, "face %d is not bound in view %d", id, v.level)
	}
	return n.Clone(), nil
}

// SortedNeighbors returns the neighbors of id in ascending order, or nil if
// id is unbound.
func (v *View) SortedNeighbors(id NodeID) []NodeID {
	return v.adj[id].Sorted()
}

// Degree returns the number of neighbors of id, or 0 if id is unbound.
func (v *View) Degree(id NodeID) int { return len(v.adj[id]) }

// Adjacent reports whether a and b share an arc in the view.
func (v *View) Adjacent(a, b NodeID) bool { return v.adj[a].Has(b) }

// Nodes returns the bound nodes in ascending order.
func (v *View) Nodes() []NodeID { return slices.Sorted(maps.Keys(v.adj)) }

// NodeSet returns the bound nodes as a set.
func (v *View) NodeSet() NodeSet {
	s := make(NodeSet, len(v.adj))
	for id := range v.adj {
		s[id] = struct{}{}
	}
	return s
}

// NodeCount returns the number of bound nodes.
func (v *View) NodeCount() int { return len(v.adj) }

// Arcs returns every arc of the view, ordered by (A, B).
func (v *View) Arcs() []Arc {
	var arcs []Arc
	for a, ns := range v.adj {
		for b := range ns {
			if a < b {
				arcs = append(arcs, Arc{A: a, B: b})
			}
		}
	}
	slices.SortFunc(arcs, func(x, y Arc) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return arcs
}

// ArcCount returns the number of arcs in the view.
func (v *View) ArcCount() int {
	n := 0
	for _, ns := range v.adj {
		n += len(ns)
	}
	return n / 2
}

// ConnectedComponents partitions seeds into groups that are path-connected
// in the view using only seed nodes as intermediates. Nodes outside seeds are
// never expanded into, so results can be scoped without pushing a subgraph.
// Seeds that are unbound in the view come back as singletons.
//
// Components are returned ordered by their smallest id.
func (v *View) ConnectedComponents(seeds NodeSet) []NodeSet {
	visited := make(NodeSet, len(seeds))
	var comps []NodeSet

	for _, start := range seeds.Sorted() {
		if visited.Has(start) {
			continue
		}
		comp := NewNodeSet(start)
		visited.Add(start)
		queue := []NodeID{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for next := range v.adj[cur] {
				if !seeds.Has(next) || visited.Has(next) {
					continue
				}
				visited.Add(next)
				comp.Add(next)
				queue = append(queue, next)
			}
		}
		comps = append(comps, comp)
	}
	SortSets(comps)
	return comps
}

// restrict returns a new view holding only nodes accepted by keep, with
// neighbor sets trimmed accordingly. The receiver is not modified.
func (v *View) restrict(keep func(NodeID) bool) *View {
	out := newView(v.level + 1)
	for id, ns := range v.adj {
		if !keep(id) {
			continue
		}
		trimmed := make(NodeSet, len(ns))
		for n := range ns {
			if keep(n) {
				trimmed[n] = struct{}{}
			}
		}
		out.adj[id] = trimmed
	}
	return out
}

func (v *View) clone() *View {
	out := newView(v.level)
	for id, ns := range v.adj {
		out.adj[id] = ns.Clone()
	}
	return out
}

// remove unbinds id and deletes it from every neighbor set.
func (v *View) remove(id NodeID) {
	for n := range v.adj[id] {
		delete(v.adj[n], id)
	}
	delete(v.adj, id)
}
