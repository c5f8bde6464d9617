package recognize

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/geom"
)

// EdgeBlendRule recognizes edge blends: curved faces whose smallest radius is
// at most MaxRadius. Accepted faces get a [aag.BlendCandidate] of type
// BlendEdge.
type EdgeBlendRule struct {
	MaxRadius float64
	Blocking  bool

	g      *aag.Graph
	oracle geom.Oracle
	logger *log.Logger
	memo   memo
	stats  Stats
}

// NewEdgeBlendRule creates a rule for one pass over g.
func NewEdgeBlendRule(g *aag.Graph, o geom.Oracle, maxRadius float64, blocking bool, logger *log.Logger) *EdgeBlendRule {
	return &EdgeBlendRule{
		MaxRadius: maxRadius,
		Blocking:  blocking,
		g:         g,
		oracle:    o,
		logger:    discardLogger(logger),
		memo:      make(memo),
	}
}

// IsBlocking reports whether propagation stops at next: only when the rule
// rejects next and blocking is on.
func (r *EdgeBlendRule) IsBlocking(_, next aag.NodeID) bool {
	return !r.Classify(next) && r.Blocking
}

// Classify reports whether face is an edge blend within the radius limit and
// attributes it on success. Faces that already carry a blend candidate are
// accepted without consulting the oracle.
func (r *EdgeBlendRule) Classify(face aag.NodeID) bool {
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

func (r *EdgeBlendRule) classify(face aag.NodeID) bool {
	if isCandidate(r.g, face) {
		return true
	}
	if _, ok := r.oracle.Plane(face); ok {
		return false
	}
	if _, ok := r.oracle.Cone(face); ok {
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
	if minR := slices.Min(radii); minR > r.MaxRadius {
		r.logger.Debug("radius above limit", "face", face, "radius", minR, "max", r.MaxRadius)
		return false
	}

	bc := &aag.BlendCandidate{
		Type:   aag.BlendEdge,
		Radii:  slices.Clone(radii),
		Length: r.length(face),
		Roles:  roles(r.g, r.g.View(), face),
	}
	r.g.Attrs().Set(face, bc)
	r.logger.Debug("edge blend", "face", face, "radius", bc.Radius())
	return true
}

// length estimates the spine length of a blend face.
func (r *EdgeBlendRule) length(face aag.NodeID) float64 {
	if c, ok := r.oracle.Cylinder(face); ok {
		return c.Height
	}
	if t, ok := r.oracle.Torus(face); ok {
		return t.MajorRadius * math.Abs(t.Sweep())
	}
	return 0
}

// Stats returns the decisions made so far.
func (r *EdgeBlendRule) Stats() Stats { return r.stats }
