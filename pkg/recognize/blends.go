package recognize

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/aag/propagate"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
	"github.com/matzehuels/facetower/pkg/geom"
	"github.com/matzehuels/facetower/pkg/observability"
)

// Pass names reported to observability hooks.
const (
	PassEdgeBlend   = "edge-blend"
	PassVertexBlend = "vertex-blend"
	PassTerminating = "terminating-edges"
	PassDrillHole   = "drill-hole"
)

// BlendOptions configures [RecognizeBlends].
type BlendOptions struct {
	// MaxRadius is the largest radius accepted as a blend.
	MaxRadius float64

	// Seeds start edge-blend propagation. When empty, every face of the
	// current view is a seed, which makes the pass an exhaustive sweep.
	Seeds []aag.NodeID

	// Blocking stops propagation at rejected faces.
	Blocking bool

	// MinBlendNeighbors is passed to the vertex-blend rule.
	MinBlendNeighbors int

	Logger *log.Logger
}

// BlendResult summarizes a blend recognition run.
type BlendResult struct {
	// Candidates holds every face tagged as a blend after the run.
	Candidates aag.NodeSet
	// Edge and Vertex split Candidates by blend type.
	Edge   aag.NodeSet
	Vertex aag.NodeSet

	EdgeStats   Stats
	VertexStats Stats
	Precised    int
	Crossed     int
}

// RecognizeBlends runs the edge-blend, vertex-blend and terminating-edge
// passes over the current view of g.
//
// Oracle failures are absorbed by the rules. Errors are structural: invalid
// seeds, or a graph mutated concurrently with the passes. Attributes written
// before an error are kept.
func RecognizeBlends(ctx context.Context, g *aag.Graph, o geom.Oracle, opts BlendOptions) (*BlendResult, error) {
	if err := ferrors.ValidateTolerance("max radius", opts.MaxRadius); err != nil {
		return nil, err
	}
	logger := discardLogger(opts.Logger)
	res := &BlendResult{}

	seeds := opts.Seeds
	if len(seeds) == 0 {
		seeds = g.Nodes()
	}
	if len(seeds) == 0 {
		res.Candidates, res.Edge, res.Vertex = aag.NewNodeSet(), aag.NewNodeSet(), aag.NewNodeSet()
		return res, nil
	}

	// Edge blends.
	edge := NewEdgeBlendRule(g, o, opts.MaxRadius, opts.Blocking, logger)
	if opts.Blocking {
		var err error
		if seeds, err = acceptedSeeds(g, edge, seeds); err != nil {
			return nil, err
		}
	}
	if len(seeds) == 0 {
		logger.Debug("no seed is a blend, skipping edge pass")
	} else if err := runPass(ctx, PassEdgeBlend, g, edge, seeds, func(id aag.NodeID) { edge.Classify(id) }, func() int { return edge.Stats().Accepted }); err != nil {
		return nil, err
	}
	res.EdgeStats = edge.Stats()

	// Vertex blends, grown from the edge blends.
	if cands := candidates(g); cands.Len() > 0 {
		vertex := NewVertexBlendRule(g, o, opts.MinBlendNeighbors, opts.Blocking, logger)
		err := runPass(ctx, PassVertexBlend, g, vertex, cands.Sorted(), func(id aag.NodeID) { vertex.Classify(id) }, func() int { return vertex.Stats().Accepted })
		res.VertexStats = vertex.Stats()
		res.Precised = vertex.Precised()
		if err != nil {
			return nil, err
		}
	}

	// Role repair, scoped to the candidates.
	if cands := candidates(g); cands.Len() > 0 {
		scope, err := g.PushSubgraph(cands)
		if err != nil {
			return nil, err
		}
		term := NewTerminatingEdgeReclassifyRule(g, logger)
		err = runPass(ctx, PassTerminating, g, term, cands.Sorted(), term.Repair, term.Changed)
		res.Crossed = term.Changed()
		scope.Close()
		if err != nil {
			return nil, err
		}
	}

	res.Candidates = candidates(g)
	res.Edge, res.Vertex = aag.NewNodeSet(), aag.NewNodeSet()
	for id := range res.Candidates {
		bc, _ := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), id)
		if bc.Type == aag.BlendVertex {
			res.Vertex.Add(id)
		} else {
			res.Edge.Add(id)
		}
	}
	logger.Info("recognized blends",
		"edge", res.Edge.Len(),
		"vertex", res.Vertex.Len(),
		"precised", res.Precised,
		"cross", res.Crossed,
		"oracle_failures", res.EdgeStats.OracleFailures+res.VertexStats.OracleFailures)
	return res, nil
}

// runPass drains one propagation over seeds, calling visit on every face the
// iterator yields so that seeds are handled as well as expanded faces.
func runPass(ctx context.Context, name string, g *aag.Graph, rule propagate.Rule, seeds []aag.NodeID, visit func(aag.NodeID), recognized func() int) error {
	start := time.Now()
	observability.Pipeline().OnPassStart(ctx, name, len(seeds))

	it, err := propagate.New(g, rule, seeds)
	if err == nil {
		for id := range it.All() {
			if ctx.Err() != nil {
				break
			}
			visit(id)
		}
		err = it.Err()
		if err == nil {
			err = ctx.Err()
		}
	}

	observability.Pipeline().OnPassComplete(ctx, name, recognized(), time.Since(start), err)
	return err
}

// acceptedSeeds drops the seeds the edge rule rejects. In blocking mode a
// rejected face is a hard stop, seeds included.
func acceptedSeeds(g *aag.Graph, edge *EdgeBlendRule, seeds []aag.NodeID) ([]aag.NodeID, error) {
	out := make([]aag.NodeID, 0, len(seeds))
	for _, s := range seeds {
		if !g.InMaster(s) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidSeed, "seed %d is not in the master id space", s)
		}
		if g.HasNode(s) && edge.Classify(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func candidates(g *aag.Graph) aag.NodeSet {
	out := g.Attrs().NodesWith(aag.KindBlendCandidate)
	for id := range out {
		if !g.HasNode(id) {
			out.Remove(id)
		}
	}
	return out
}
