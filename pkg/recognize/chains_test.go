package recognize

import (
	"testing"

	"github.com/matzehuels/facetower/pkg/aag"
)

// tagged builds a path 1-2-...-n and attributes face i with a blend of
// radius radii[i-1]. Faces listed in vertex become vertex blends.
func tagged(t *testing.T, radii []float64, vertex ...aag.NodeID) *aag.Graph {
	t.Helper()
	adj := make(map[aag.NodeID][]aag.NodeID)
	nodes := make([]aag.NodeID, len(radii))
	for i := range radii {
		nodes[i] = aag.NodeID(i + 1)
		if i > 0 {
			adj[nodes[i-1]] = append(adj[nodes[i-1]], nodes[i])
		}
	}
	g, err := aag.New(nodes, adj)
	if err != nil {
		t.Fatal(err)
	}
	isVertex := aag.NewNodeSet(vertex...)
	for i, r := range radii {
		bc := &aag.BlendCandidate{Type: aag.BlendEdge, Radii: []float64{r}, Length: 2}
		if isVertex.Has(nodes[i]) {
			bc.Type = aag.BlendVertex
		}
		g.Attrs().Set(nodes[i], bc)
	}
	return g
}

func chainFaces(chains []Chain) [][]aag.NodeID {
	out := make([][]aag.NodeID, len(chains))
	for i, c := range chains {
		out[i] = c.Faces.Sorted()
	}
	return out
}

func TestGroup(t *testing.T) {
	tests := []struct {
		name    string
		radii   []float64
		vertex  []aag.NodeID
		faces   []aag.NodeID
		want    [][]aag.NodeID
		corners []aag.NodeID
	}{
		{
			name:  "SingleChain",
			radii: []float64{5, 5, 5},
			faces: []aag.NodeID{1, 2, 3},
			want:  [][]aag.NodeID{{1, 2, 3}},
		},
		{
			name:  "DisjointSameRadius",
			radii: []float64{5, 5, 50, 5},
			faces: []aag.NodeID{1, 2, 4},
			want:  [][]aag.NodeID{{1, 2}, {4}},
		},
		{
			name:  "RadiusSplit",
			radii: []float64{5, 5, 8, 8},
			faces: []aag.NodeID{1, 2, 3, 4},
			want:  [][]aag.NodeID{{1, 2}, {3, 4}},
		},
		{
			name:  "WithinTolerance",
			radii: []float64{5, 5.02, 4.99},
			faces: []aag.NodeID{1, 2, 3},
			want:  [][]aag.NodeID{{1, 2, 3}},
		},
		{
			name:  "BucketSplitsComponent",
			radii: []float64{5, 8, 5},
			faces: []aag.NodeID{1, 2, 3},
			want:  [][]aag.NodeID{{1}, {2}, {3}},
		},
		{
			name:    "DanglingCorner",
			radii:   []float64{5, 5, 5},
			vertex:  []aag.NodeID{3},
			faces:   []aag.NodeID{1, 2, 3},
			want:    [][]aag.NodeID{{1, 2}},
			corners: []aag.NodeID{3},
		},
		{
			name:    "LowCornersNoCascade",
			radii:   []float64{5, 5, 5},
			vertex:  []aag.NodeID{1, 2},
			faces:   []aag.NodeID{1, 2, 3},
			want:    [][]aag.NodeID{{2, 3}},
			corners: []aag.NodeID{1},
		},
		{
			name:    "HighCornersNoCascade",
			radii:   []float64{5, 5, 5},
			vertex:  []aag.NodeID{2, 3},
			faces:   []aag.NodeID{1, 2, 3},
			want:    [][]aag.NodeID{{1, 2}},
			corners: []aag.NodeID{3},
		},
		{
			name:   "IsolatedCornersKept",
			radii:  []float64{5, 5},
			vertex: []aag.NodeID{1, 2},
			faces:  []aag.NodeID{1, 2},
			want:   [][]aag.NodeID{{1}, {2}},
		},
		{
			name:   "InnerCornerStays",
			radii:  []float64{5, 5, 5},
			vertex: []aag.NodeID{2},
			faces:  []aag.NodeID{1, 2, 3},
			want:   [][]aag.NodeID{{1, 2, 3}},
		},
		{
			name:   "LoneCorner",
			radii:  []float64{5},
			vertex: []aag.NodeID{1},
			faces:  []aag.NodeID{1},
			want:   [][]aag.NodeID{{1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tagged(t, tt.radii, tt.vertex...)
			res := NewGrouper(nil).Group(g, aag.NewNodeSet(tt.faces...))

			got := chainFaces(res.Chains)
			if len(got) != len(tt.want) {
				t.Fatalf("chains = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !equalIDs(res.Chains[i].Faces, tt.want[i]...) {
					t.Errorf("chain %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if !equalIDs(res.Corners, tt.corners...) {
				t.Errorf("corners = %v, want %v", res.Corners, tt.corners)
			}
		})
	}
}

func TestGroupChainMetrics(t *testing.T) {
	g := tagged(t, []float64{5, 5, 8})
	res := NewGrouper(nil).Group(g, aag.NewNodeSet(1, 2, 3))
	if len(res.Chains) != 2 {
		t.Fatalf("chains = %v", chainFaces(res.Chains))
	}
	if c := res.Chains[0]; c.Radius != 5 || c.Length != 4 {
		t.Errorf("chain 0 radius=%g length=%g, want 5 and 4", c.Radius, c.Length)
	}
	if c := res.Chains[1]; c.Radius != 8 || c.Length != 2 {
		t.Errorf("chain 1 radius=%g length=%g, want 8 and 2", c.Radius, c.Length)
	}
}

func TestGroupTolerance(t *testing.T) {
	g := tagged(t, []float64{5, 5.2})
	faces := aag.NewNodeSet(1, 2)

	if n := len(NewGrouper(nil).Group(g, faces).Chains); n != 2 {
		t.Errorf("default tolerance: %d chains, want 2", n)
	}
	loose := Grouper{TolerancePct: 10, Precision: DefaultPrecision}
	if n := len(loose.Group(g, faces).Chains); n != 1 {
		t.Errorf("10%% tolerance: %d chains, want 1", n)
	}
	exact := Grouper{Precision: DefaultPrecision}
	if n := len(exact.Group(g, aag.NewNodeSet(1)).Chains); n != 1 {
		t.Errorf("zero tolerance: %d chains, want 1", n)
	}
}

func TestGroupRespectsView(t *testing.T) {
	g := tagged(t, []float64{5, 5, 5})
	scope, err := g.PushSubgraphExcluding(aag.NewNodeSet(2))
	if err != nil {
		t.Fatal(err)
	}
	defer scope.Close()

	got := chainFaces(NewGrouper(nil).Group(g, aag.NewNodeSet(1, 3)).Chains)
	if len(got) != 2 {
		t.Errorf("chains = %v, want two singletons", got)
	}
}
