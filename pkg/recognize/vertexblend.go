package recognize

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/geom"
)

// DefaultMinBlendNeighbors is the number of smooth blend neighbors a face
// needs to be a vertex blend.
const DefaultMinBlendNeighbors = 3

// VertexBlendRule recognizes vertex blends: curved faces whose smooth
// boundaries all lead to blend candidates, with at least MinBlendNeighbors of
// them. A face already tagged as an edge blend is re-attributed.
type VertexBlendRule struct {
	Blocking          bool
	MinBlendNeighbors int

	g       *aag.Graph
	oracle  geom.Oracle
	logger  *log.Logger
	memo    memo
	stats   Stats
	precise int
}

// NewVertexBlendRule creates a rule for one pass over g. A non-positive
// minNeighbors selects DefaultMinBlendNeighbors.
func NewVertexBlendRule(g *aag.Graph, o geom.Oracle, minNeighbors int, blocking bool, logger *log.Logger) *VertexBlendRule {
	if minNeighbors <= 0 {
		minNeighbors = DefaultMinBlendNeighbors
	}
	return &VertexBlendRule{
		Blocking:          blocking,
		MinBlendNeighbors: minNeighbors,
		g:                 g,
		oracle:            o,
		logger:            discardLogger(logger),
		memo:              make(memo),
	}
}

// IsBlocking reports whether propagation stops at next.
func (r *VertexBlendRule) IsBlocking(_, next aag.NodeID) bool {
	return !r.Classify(next) && r.Blocking
}

// Classify reports whether face is a vertex blend and attributes it.
func (r *VertexBlendRule) Classify(face aag.NodeID) bool {
	if v, ok := r.memo.lookup(face); ok {
		return v
	}
	ok := r.classify(face)
	r.memo[face] = ok
	r.stats.Evaluated++
	if ok {
		r.stats.Accepted++
	} else {
		r.stats.Rejected++
	}
	return ok
}

func (r *VertexBlendRule) classify(face aag.NodeID) bool {
	existing, tagged := aag.AttrOf[*aag.BlendCandidate](r.g.Attrs(), face)
	if tagged && existing.Type == aag.BlendVertex {
		return true
	}
	if _, ok := r.oracle.Plane(face); ok {
		return false
	}
	radii, err := r.oracle.Radii(face)
	if err != nil {
		r.stats.OracleFailures++
		r.logger.Debug("radius query failed", "face", face, "err", err)
		return false
	}
	if len(radii) == 0 {
		return false
	}

	view := r.g.View()
	blends := 0
	for _, n := range view.SortedNeighbors(face) {
		if !r.g.DihedralKind(face, n).IsSmooth() {
			continue
		}
		if !isCandidate(r.g, n) {
			return false
		}
		blends++
	}
	if blends < r.MinBlendNeighbors {
		return false
	}

	bc := &aag.BlendCandidate{
		Type:  aag.BlendVertex,
		Radii: slices.Clone(radii),
		Roles: roles(r.g, view, face),
	}
	if tagged {
		bc.Length = existing.Length
		r.g.Attrs().Remove(face, aag.KindBlendCandidate)
		r.precise++
		r.logger.Debug("precised edge blend", "face", face)
	}
	r.g.Attrs().Set(face, bc)
	r.logger.Debug("vertex blend", "face", face, "blends", blends)
	return true
}

// Stats returns the decisions made so far.
func (r *VertexBlendRule) Stats() Stats { return r.stats }

// Precised returns how many edge blends were re-attributed as vertex blends.
func (r *VertexBlendRule) Precised() int { return r.precise }
