package aag

import (
	"errors"
	"testing"

	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

func ids(n int) []NodeID {
	out := make([]NodeID, n)
	for i := range out {
		out[i] = NodeID(i + 1)
	}
	return out
}

// cycle builds 1-2-...-n-1.
func cycle(t *testing.T, n int) *Graph {
	t.Helper()
	adj := make(map[NodeID][]NodeID, n)
	for i := 1; i <= n; i++ {
		next := i%n + 1
		adj[NodeID(i)] = append(adj[NodeID(i)], NodeID(next))
	}
	g, err := New(ids(n), adj)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

// path builds 1-2-...-n.
func path(t *testing.T, n int) *Graph {
	t.Helper()
	adj := make(map[NodeID][]NodeID, n)
	for i := 1; i < n; i++ {
		adj[NodeID(i)] = []NodeID{NodeID(i + 1)}
	}
	g, err := New(ids(n), adj)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []NodeID
		adj      map[NodeID][]NodeID
		wantCode ferrors.Code
		arcs     int
	}{
		{name: "Empty", nodes: nil, arcs: 0},
		{name: "Isolated", nodes: []NodeID{1, 2}, arcs: 0},
		{name: "Symmetrised", nodes: []NodeID{1, 2, 3}, adj: map[NodeID][]NodeID{1: {2}, 3: {2}}, arcs: 2},
		{name: "BothDirections", nodes: []NodeID{1, 2}, adj: map[NodeID][]NodeID{1: {2}, 2: {1}}, arcs: 1},
		{name: "ZeroID", nodes: []NodeID{0, 1}, wantCode: ferrors.ErrCodeInvalidInput},
		{name: "Duplicate", nodes: []NodeID{1, 1}, wantCode: ferrors.ErrCodeInvalidInput},
		{name: "SelfLoop", nodes: []NodeID{1}, adj: map[NodeID][]NodeID{1: {1}}, wantCode: ferrors.ErrCodeInvalidInput},
		{name: "UnknownTarget", nodes: []NodeID{1}, adj: map[NodeID][]NodeID{1: {9}}, wantCode: ferrors.ErrCodeInvalidInput},
		{name: "UnknownSource", nodes: []NodeID{1}, adj: map[NodeID][]NodeID{9: {1}}, wantCode: ferrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.nodes, tt.adj)
			if tt.wantCode != "" {
				if !ferrors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := g.ArcCount(); got != tt.arcs {
				t.Errorf("ArcCount() = %d, want %d", got, tt.arcs)
			}
			if got := g.NodeCount(); got != len(tt.nodes) {
				t.Errorf("NodeCount() = %d, want %d", got, len(tt.nodes))
			}
		})
	}
}

func TestNeighbors(t *testing.T) {
	g, err := New([]NodeID{1, 2, 3}, map[NodeID][]NodeID{1: {2}})
	if err != nil {
		t.Fatal(err)
	}

	n, err := g.Neighbors(1)
	if err != nil {
		t.Fatalf("Neighbors(1): %v", err)
	}
	if !n.Equal(NewNodeSet(2)) {
		t.Errorf("Neighbors(1) = %v, want {2}", n)
	}

	// Bound with no neighbors is not the same as unbound.
	n, err = g.Neighbors(3)
	if err != nil {
		t.Fatalf("Neighbors(3): %v", err)
	}
	if n.Len() != 0 {
		t.Errorf("Neighbors(3) = %v, want {}", n)
	}

	if _, err := g.Neighbors(42); !ferrors.Is(err, ferrors.ErrCodeNotFound) {
		t.Errorf("Neighbors(42) err = %v, want NOT_FOUND", err)
	}

	// The returned set is a copy.
	n, _ = g.Neighbors(1)
	n.Add(3)
	if again, _ := g.Neighbors(1); again.Has(3) {
		t.Error("mutating the returned set changed the graph")
	}
}

type stubTopology struct {
	faces []NodeID
	adj   map[NodeID][]NodeID
}

func (s stubTopology) FaceIDs() []NodeID              { return s.faces }
func (s stubTopology) Adjacency() map[NodeID][]NodeID { return s.adj }

type stubClassifier map[Arc]DihedralKind

func (s stubClassifier) ClassifyDihedral(a, b NodeID) (Dihedral, error) {
	k, ok := s[NewArc(a, b)]
	if !ok {
		return Dihedral{}, errors.New("degenerate edge")
	}
	return Dihedral{Type: k, Edges: []int{int(a)*100 + int(b)}}, nil
}

func TestBuild(t *testing.T) {
	topo := stubTopology{
		faces: []NodeID{1, 2, 3},
		adj:   map[NodeID][]NodeID{1: {2, 3}, 2: {3}},
	}
	cls := stubClassifier{
		NewArc(1, 2): DihedralConcave,
		NewArc(2, 3): DihedralSmoothConvex,
	}

	g, err := Build(topo, cls)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		a, b NodeID
		want DihedralKind
	}{
		{1, 2, DihedralConcave},
		{2, 1, DihedralConcave},
		{3, 2, DihedralSmoothConvex},
		{1, 3, DihedralUndefined}, // oracle failure is recorded, not fatal
	}
	for _, tt := range tests {
		d, ok := g.Dihedral(tt.a, tt.b)
		if !ok {
			t.Errorf("Dihedral(%d, %d) missing", tt.a, tt.b)
			continue
		}
		if d.Type != tt.want {
			t.Errorf("Dihedral(%d, %d) = %s, want %s", tt.a, tt.b, d.Type, tt.want)
		}
	}
}

func TestRemove(t *testing.T) {
	for n := 3; n <= 6; n++ {
		g := cycle(t, n)
		for _, id := range g.Nodes() {
			c := g.Copy()
			c.Attrs().Set(id, &Feature{ID: 1})
			if err := c.Remove(id); err != nil {
				t.Fatalf("Remove(%d): %v", id, err)
			}
			if c.HasNode(id) {
				t.Errorf("cycle %d: node %d still bound after Remove", n, id)
			}
			for _, other := range c.Nodes() {
				ns, _ := c.Neighbors(other)
				if ns.Has(id) {
					t.Errorf("cycle %d: node %d still neighbor of %d", n, id, other)
				}
			}
			if c.Attrs().Has(id, KindFeature) {
				t.Errorf("cycle %d: attributes of %d not purged", n, id)
			}
			if !c.InMaster(id) {
				t.Errorf("cycle %d: node %d dropped from master space", n, id)
			}
		}
	}
}

func TestRemoveKeepsArcAttributes(t *testing.T) {
	g := path(t, 2)
	g.SetArcAttr(1, 2, &Dihedral{Type: DihedralConvex})
	if err := g.Remove(1); err != nil {
		t.Fatal(err)
	}
	if got := g.DihedralKind(2, 1); got != DihedralConvex {
		t.Errorf("DihedralKind after Remove = %s, want convex", got)
	}
}

func TestRemoveUnknown(t *testing.T) {
	g := path(t, 2)
	if err := g.Remove(7); !ferrors.Is(err, ferrors.ErrCodeNotFound) {
		t.Errorf("Remove(7) err = %v, want NOT_FOUND", err)
	}
	// Removing twice is harmless.
	if err := g.Remove(1); err != nil {
		t.Fatal(err)
	}
	if err := g.Remove(1); err != nil {
		t.Errorf("second Remove(1): %v", err)
	}
}

func TestRemoveOnlyAffectsCurrentView(t *testing.T) {
	g := path(t, 3)
	scope, err := g.PushSubgraph(NewNodeSet(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Remove(2); err != nil {
		t.Fatal(err)
	}
	if g.HasNode(2) {
		t.Error("node 2 still bound in pushed view")
	}
	scope.Close()
	if !g.HasNode(2) {
		t.Error("Remove in pushed view leaked into base view")
	}
}

func TestArcAttrFirstWriteWins(t *testing.T) {
	g := path(t, 3)
	if !g.SetArcAttr(1, 2, &Dihedral{Type: DihedralConvex}) {
		t.Fatal("first SetArcAttr returned false")
	}
	if g.SetArcAttr(2, 1, &Dihedral{Type: DihedralConcave}) {
		t.Error("second SetArcAttr returned true")
	}
	if got := g.DihedralKind(1, 2); got != DihedralConvex {
		t.Errorf("DihedralKind = %s, want convex", got)
	}
	if !g.RemoveArcAttr(1, 2) {
		t.Error("RemoveArcAttr returned false")
	}
	if g.RemoveArcAttr(1, 2) {
		t.Error("RemoveArcAttr on empty arc returned true")
	}
	if g.SetArcAttr(1, 99, &Dihedral{}) {
		t.Error("SetArcAttr accepted an id outside the master space")
	}
}

func TestCopyIndependence(t *testing.T) {
	g := path(t, 3)
	g.SetArcAttr(1, 2, &Dihedral{Type: DihedralConcave, Edges: []int{7}})
	g.Attrs().Set(1, &BlendCandidate{Type: BlendEdge, Radii: []float64{5}})

	c := g.Copy()

	bc, _ := AttrOf[*BlendCandidate](c.Attrs(), 1)
	bc.Radii[0] = 99
	c.Attrs().Remove(1, KindBlendCandidate)
	c.Attrs().Set(2, &Feature{ID: 3})
	d, _ := c.Dihedral(1, 2)
	d.Edges[0] = 0
	c.RemoveArcAttr(1, 2)
	if err := c.Remove(3); err != nil {
		t.Fatal(err)
	}

	orig, ok := AttrOf[*BlendCandidate](g.Attrs(), 1)
	if !ok || orig.Radii[0] != 5 {
		t.Errorf("original blend candidate changed: %+v", orig)
	}
	if g.Attrs().Has(2, KindFeature) {
		t.Error("attribute set on copy appeared on original")
	}
	od, ok := g.Dihedral(1, 2)
	if !ok || od.Edges[0] != 7 {
		t.Errorf("original arc attribute changed: %+v", od)
	}
	if !g.HasNode(3) {
		t.Error("Remove on copy affected original")
	}
}

func TestVersion(t *testing.T) {
	g := path(t, 3)
	v0 := g.Version()
	scope, _ := g.PushSubgraph(NewNodeSet(1, 2))
	v1 := g.Version()
	if v1 == v0 {
		t.Error("push did not bump version")
	}
	scope.Close()
	if g.Version() == v1 {
		t.Error("pop did not bump version")
	}
	v2 := g.Version()
	g.Attrs().Set(1, &Feature{ID: 1})
	if g.Version() != v2 {
		t.Error("attribute write bumped structural version")
	}
	_ = g.Remove(1)
	if g.Version() == v2 {
		t.Error("remove did not bump version")
	}
}

func TestArcs(t *testing.T) {
	g := cycle(t, 4)
	want := []Arc{{1, 2}, {1, 4}, {2, 3}, {3, 4}}
	got := g.Arcs()
	if len(got) != len(want) {
		t.Fatalf("Arcs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Arcs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestArc(t *testing.T) {
	if NewArc(3, 1) != NewArc(1, 3) {
		t.Error("NewArc is order dependent")
	}
	a := NewArc(4, 2)
	if a.Other(2) != 4 || a.Other(4) != 2 || a.Other(9) != 0 {
		t.Errorf("Other() wrong for %v", a)
	}
	if a.String() != "(2, 4)" {
		t.Errorf("String() = %q", a.String())
	}
}
