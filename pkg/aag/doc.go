// Package aag provides the Attributed Adjacency Graph (AAG) used for
// feature recognition on boundary-representation solid models.
//
// # Overview
//
// Every face of a solid model becomes a node identified by a stable positive
// [NodeID]. Two nodes are joined by an unordered [Arc] when the faces share a
// boundary edge. Recognition passes attach metadata to nodes and arcs as
// [Attribute] values: the dihedral classification of each arc is recorded at
// construction time, and rules later tag faces as blend candidates or drill
// hole members.
//
// # Basic Usage
//
// Build a graph from a topology adapter and a dihedral classifier with
// [Build], or from raw adjacency with [New]:
//
//	g, err := aag.New([]aag.NodeID{1, 2, 3}, map[aag.NodeID][]aag.NodeID{
//	    1: {2},
//	    2: {3},
//	})
//
// Query the current view with [Graph.Neighbors], [Graph.HasNode] and
// [Graph.ConnectedComponents]. Unknown ids fail fast with a NOT_FOUND error;
// an empty-but-bound neighbor set is a valid, distinct state.
//
// # Views
//
// The graph keeps a stack of adjacency views. The bottom view is the full
// adjacency and is never popped. [Graph.PushSubgraph] and
// [Graph.PushSubgraphExcluding] push a narrower view and return a [Scope]
// guard that pops it again on Close:
//
//	scope, err := g.PushSubgraph(aag.NewNodeSet(1, 2))
//	if err != nil {
//	    return err
//	}
//	defer scope.Close()
//
// [Graph.View] returns an explicit handle on the current view so that callers
// can query a scope without depending on the implicit top of the stack.
//
// # Attributes
//
// Node attributes live in an [AttributeStore] keyed by (node, kind). Writes
// are first-write-wins: [AttributeStore.Set] returns false and keeps the
// existing value when the kind is already bound, which makes repeated
// recognition passes over overlapping seeds idempotent. Callers that want to
// overwrite must Remove first.
//
// Arc attributes hold a single [Attribute] per arc, usually a [Dihedral]. They
// describe history rather than membership and survive removal of their
// endpoints from the current view.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. A graph is owned by one
// recognition pipeline; use [Graph.Copy] to hand an independent snapshot to
// another goroutine.
package aag
