package recognize

import (
	"context"
	"testing"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/aag/propagate"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
	"github.com/matzehuels/facetower/pkg/geom"
)

// squareOfBlends is the 4-cycle 1-2-3-4-1 with concave arcs and radius 5.
func squareOfBlends(t *testing.T) (*aag.Graph, *geom.Table) {
	m := newModel(t)
	for id := aag.NodeID(1); id <= 4; id++ {
		m.face(id, blendFace(5))
	}
	m.arc(1, 2, aag.DihedralConcave).
		arc(2, 3, aag.DihedralConcave).
		arc(3, 4, aag.DihedralConcave).
		arc(4, 1, aag.DihedralConcave)
	return m.build()
}

// pathWithWideFace is the path 1-2-3-4 where face 3 has radius 50.
func pathWithWideFace(t *testing.T) (*aag.Graph, *geom.Table) {
	m := newModel(t)
	m.face(1, blendFace(5)).face(2, blendFace(5)).face(3, blendFace(50)).face(4, blendFace(5))
	m.arc(1, 2, aag.DihedralConcave).
		arc(2, 3, aag.DihedralConcave).
		arc(3, 4, aag.DihedralConcave)
	return m.build()
}

func TestEdgeBlendCycle(t *testing.T) {
	g, o := squareOfBlends(t)
	rule := NewEdgeBlendRule(g, o, 10, false, nil)

	it, err := propagate.New(g, rule, []aag.NodeID{1})
	if err != nil {
		t.Fatal(err)
	}
	for id := range it.All() {
		rule.Classify(id)
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}

	tagged := g.Attrs().NodesWith(aag.KindBlendCandidate)
	if !equalIDs(tagged, 1, 2, 3, 4) {
		t.Fatalf("candidates = %v, want {1 2 3 4}", tagged)
	}
	comps := g.ConnectedComponents(tagged)
	if len(comps) != 1 || !equalIDs(comps[0], 1, 2, 3, 4) {
		t.Errorf("components = %v, want [{1 2 3 4}]", comps)
	}

	bc, _ := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), 1)
	if bc.Type != aag.BlendEdge || bc.Radius() != 5 || bc.Length != 10 {
		t.Errorf("candidate = %+v", bc)
	}
	if bc.Roles[2] != aag.RoleTerminating || bc.Roles[4] != aag.RoleTerminating {
		t.Errorf("roles = %v", bc.Roles)
	}
	if s := rule.Stats(); s.Accepted != 4 || s.Evaluated != 4 {
		t.Errorf("stats = %+v", s)
	}
}

func TestRecognizeBlendsCycle(t *testing.T) {
	g, o := squareOfBlends(t)
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{1}})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Candidates, 1, 2, 3, 4) {
		t.Errorf("Candidates = %v", res.Candidates)
	}
	if res.Vertex.Len() != 0 || res.Crossed != 0 {
		t.Errorf("Vertex = %v, Crossed = %d", res.Vertex, res.Crossed)
	}
	if g.Depth() != 1 {
		t.Errorf("Depth() = %d after run, want 1", g.Depth())
	}
}

func TestBlockingHaltsAtWideFace(t *testing.T) {
	g, o := pathWithWideFace(t)
	ctx := context.Background()

	res, err := RecognizeBlends(ctx, g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{1}, Blocking: true})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Candidates, 1, 2) {
		t.Fatalf("Candidates = %v, want {1 2}", res.Candidates)
	}
	if g.Attrs().Has(3, aag.KindBlendCandidate) {
		t.Error("face 3 was attributed")
	}
	if res.EdgeStats.Evaluated != 3 {
		t.Errorf("evaluated %d faces, want 3 (face 4 must not be reached)", res.EdgeStats.Evaluated)
	}

	// A second strict pass from the far side picks up face 4 alone.
	res, err = RecognizeBlends(ctx, g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{4}, Blocking: true})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Candidates, 1, 2, 4) {
		t.Fatalf("Candidates = %v, want {1 2 4}", res.Candidates)
	}

	chains := NewGrouper(nil).Group(g, res.Candidates).Chains
	if len(chains) != 2 || !equalIDs(chains[0].Faces, 1, 2) || !equalIDs(chains[1].Faces, 4) {
		t.Errorf("chains = %v", chains)
	}
}

func TestBlockingRejectsWideSeed(t *testing.T) {
	build := func() (*aag.Graph, *geom.Table) {
		m := newModel(t)
		m.face(1, blendFace(50)).face(2, blendFace(5)).face(3, blendFace(5))
		m.arc(1, 2, aag.DihedralConcave).arc(2, 3, aag.DihedralConcave)
		return m.build()
	}

	g, o := build()
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{1}, Blocking: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Candidates.Len() != 0 {
		t.Errorf("Candidates = %v, want none", res.Candidates)
	}
	if s := res.EdgeStats; s.Evaluated != 1 || s.Rejected != 1 {
		t.Errorf("stats = %+v, want only the seed evaluated", s)
	}

	g, o = build()
	res, err = RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{1}})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Candidates, 2, 3) {
		t.Errorf("sweep Candidates = %v, want {2 3}", res.Candidates)
	}

	if _, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{9}, Blocking: true}); !ferrors.Is(err, ferrors.ErrCodeInvalidSeed) {
		t.Errorf("unknown seed err = %v", err)
	}
}

func TestNonBlockingPassesWideFace(t *testing.T) {
	g, o := pathWithWideFace(t)
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 10, Seeds: []aag.NodeID{1}})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Candidates, 1, 2, 4) {
		t.Errorf("Candidates = %v, want {1 2 4}", res.Candidates)
	}
}

func TestOracleFailureHandledByBlocking(t *testing.T) {
	build := func() (*aag.Graph, *geom.Table) {
		m := newModel(t)
		bad := blendFace(5)
		bad.Degenerate = true
		m.face(1, blendFace(5)).face(2, bad).face(3, blendFace(5))
		m.arc(1, 2, aag.DihedralConcave).arc(2, 3, aag.DihedralConcave)
		return m.build()
	}

	tests := []struct {
		name     string
		blocking bool
		want     []aag.NodeID
	}{
		{"Blocking", true, []aag.NodeID{1}},
		{"Sweep", false, []aag.NodeID{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, o := build()
			res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{
				MaxRadius: 10, Seeds: []aag.NodeID{1}, Blocking: tt.blocking,
			})
			if err != nil {
				t.Fatalf("oracle failure escalated: %v", err)
			}
			if !equalIDs(res.Candidates, tt.want...) {
				t.Errorf("Candidates = %v, want %v", res.Candidates, tt.want)
			}
			if res.EdgeStats.OracleFailures != 1 {
				t.Errorf("OracleFailures = %d, want 1", res.EdgeStats.OracleFailures)
			}
		})
	}
}

// cornerModel: three edge blends 1, 2, 3 meet smoothly in corner 10. Each
// edge blend also meets two planes smoothly. Edge blend 1 ends sharply on
// plane 7 and edge blends 2 and 3 meet sharply.
func cornerModel(t *testing.T) (*aag.Graph, *geom.Table) {
	m := newModel(t)
	m.face(1, blendFace(3)).face(2, blendFace(3)).face(3, blendFace(3)).face(10, cornerFace(3))
	for _, p := range []aag.NodeID{4, 5, 6, 7} {
		m.face(p, planeFace(geom.V(0, 0, 1)))
	}
	m.arc(10, 1, aag.DihedralSmooth).
		arc(10, 2, aag.DihedralSmooth).
		arc(10, 3, aag.DihedralSmooth).
		arc(1, 4, aag.DihedralSmoothConvex).arc(1, 5, aag.DihedralSmoothConvex).
		arc(2, 5, aag.DihedralSmoothConvex).arc(2, 6, aag.DihedralSmoothConvex).
		arc(3, 6, aag.DihedralSmoothConvex).arc(3, 4, aag.DihedralSmoothConvex).
		arc(1, 7, aag.DihedralConvex).
		arc(2, 3, aag.DihedralConvex)
	return m.build()
}

func TestVertexBlendPrecising(t *testing.T) {
	g, o := cornerModel(t)
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Edge, 1, 2, 3) {
		t.Errorf("Edge = %v, want {1 2 3}", res.Edge)
	}
	if !equalIDs(res.Vertex, 10) {
		t.Errorf("Vertex = %v, want {10}", res.Vertex)
	}
	if res.Precised != 1 {
		t.Errorf("Precised = %d, want 1", res.Precised)
	}
	bc, _ := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), 10)
	if bc.Type != aag.BlendVertex {
		t.Errorf("face 10 type = %s", bc.Type)
	}
}

func TestVertexBlendNeedsEnoughNeighbors(t *testing.T) {
	g, o := cornerModel(t)
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 5, MinBlendNeighbors: 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Vertex.Len() != 0 {
		t.Errorf("Vertex = %v, want none", res.Vertex)
	}
}

func TestTerminatingEdgesBecomeCross(t *testing.T) {
	g, o := cornerModel(t)
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Crossed != 1 {
		t.Errorf("Crossed = %d, want 1", res.Crossed)
	}

	bc1, _ := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), 1)
	if bc1.Roles[7] != aag.RoleCross {
		t.Errorf("role 1-7 = %s, want cross", bc1.Roles[7])
	}
	if bc1.Roles[4] != aag.RoleSmooth {
		t.Errorf("role 1-4 = %s, want smooth", bc1.Roles[4])
	}

	// Both sides of 2-3 are blends, so the boundary stays terminating.
	bc2, _ := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), 2)
	if bc2.Roles[3] != aag.RoleTerminating {
		t.Errorf("role 2-3 = %s, want terminating", bc2.Roles[3])
	}
}

func TestTerminatingRuleNeverBlocks(t *testing.T) {
	g, _ := squareOfBlends(t)
	rule := NewTerminatingEdgeReclassifyRule(g, nil)
	for _, arc := range g.Arcs() {
		if rule.IsBlocking(arc.A, arc.B) {
			t.Errorf("IsBlocking(%d, %d) = true", arc.A, arc.B)
		}
	}
}

func TestRecognizeBlendsIdempotent(t *testing.T) {
	g, o := cornerModel(t)
	ctx := context.Background()
	first, err := RecognizeBlends(ctx, g, o, BlendOptions{MaxRadius: 5})
	if err != nil {
		t.Fatal(err)
	}
	second, err := RecognizeBlends(ctx, g, o, BlendOptions{MaxRadius: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Candidates.Equal(first.Candidates) || !second.Vertex.Equal(first.Vertex) {
		t.Errorf("second run changed candidates: %v vs %v", second.Candidates, first.Candidates)
	}
	if second.Precised != 0 || second.Crossed != 0 {
		t.Errorf("second run rewrote attributes: precised=%d crossed=%d", second.Precised, second.Crossed)
	}
}

func TestRecognizeBlendsErrors(t *testing.T) {
	g, o := squareOfBlends(t)
	ctx := context.Background()
	if _, err := RecognizeBlends(ctx, g, o, BlendOptions{MaxRadius: 5, Seeds: []aag.NodeID{9}}); !ferrors.Is(err, ferrors.ErrCodeInvalidSeed) {
		t.Errorf("unknown seed err = %v", err)
	}
	if _, err := RecognizeBlends(ctx, g, o, BlendOptions{MaxRadius: -1}); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("negative radius err = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := RecognizeBlends(cancelled, g, o, BlendOptions{MaxRadius: 5}); err == nil {
		t.Error("cancelled context did not stop the run")
	}
}

func TestRecognizeBlendsScoped(t *testing.T) {
	g, o := squareOfBlends(t)
	scope, err := g.PushSubgraphExcluding(aag.NewNodeSet(3))
	if err != nil {
		t.Fatal(err)
	}
	res, err := RecognizeBlends(context.Background(), g, o, BlendOptions{MaxRadius: 10})
	scope.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(res.Candidates, 1, 2, 4) {
		t.Errorf("Candidates = %v, want {1 2 4}", res.Candidates)
	}
}
