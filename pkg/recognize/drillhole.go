package recognize

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
	"github.com/matzehuels/facetower/pkg/geom"
	"github.com/matzehuels/facetower/pkg/observability"
)

// Drill hole defaults.
const (
	DefaultLinearTol   = 1e-4
	DefaultAngularTol  = 1e-3
	DefaultMaxSupports = 4
)

// DrillState is the furthest stage a drill hole candidate reached.
type DrillState int

const (
	StateSeedRejected DrillState = iota
	StateCoreGrown
	StateSupportsValidated
	StateEndingsValidated
	StateAccepted
)

func (s DrillState) String() string {
	switch s {
	case StateSeedRejected:
		return "seed-rejected"
	case StateCoreGrown:
		return "core-grown"
	case StateSupportsValidated:
		return "supports-validated"
	case StateEndingsValidated:
		return "endings-validated"
	case StateAccepted:
		return "accepted"
	}
	return "unknown"
}

// DrillCandidate is the outcome of evaluating one seed. It is a plain value:
// evaluating a seed never writes to the graph.
type DrillCandidate struct {
	Seed  aag.NodeID
	State DrillState
	// Reason explains why the candidate stopped before StateAccepted.
	Reason string

	// Core holds the bore faces (cylinders or cones) and coaxial tori that
	// share the seed's axis and radius.
	Core aag.NodeSet
	// Supports is the subset of Core that carries the bore surface.
	Supports aag.NodeSet
	// Endings holds the caps closing the bore.
	Endings aag.NodeSet

	Axis   geom.Axis
	Radius float64
	Depth  float64
	Sweep  float64
}

// DrillHoleRule recognizes cylindrical drill holes.
type DrillHoleRule struct {
	// MaxRadius limits the bore radius. Zero means unlimited.
	MaxRadius   float64
	LinearTol   float64
	AngularTol  float64
	AllowCones  bool
	MaxSupports int

	g      *aag.Graph
	oracle geom.Oracle
	logger *log.Logger
}

// DrillOptions configures [RecognizeDrillHoles] and [NewDrillHoleRule].
type DrillOptions struct {
	MaxRadius   float64
	LinearTol   float64
	AngularTol  float64
	AllowCones  bool
	MaxSupports int
	// FirstFeatureID numbers the first accepted hole. Defaults to 1.
	FirstFeatureID int
	Logger         *log.Logger
}

// NewDrillHoleRule creates a rule over g. Zero tolerances and MaxSupports are
// replaced by their defaults.
func NewDrillHoleRule(g *aag.Graph, o geom.Oracle, opts DrillOptions) *DrillHoleRule {
	r := &DrillHoleRule{
		MaxRadius:   opts.MaxRadius,
		LinearTol:   opts.LinearTol,
		AngularTol:  opts.AngularTol,
		AllowCones:  opts.AllowCones,
		MaxSupports: opts.MaxSupports,
		g:           g,
		oracle:      o,
		logger:      discardLogger(opts.Logger),
	}
	if r.LinearTol <= 0 {
		r.LinearTol = DefaultLinearTol
	}
	if r.AngularTol <= 0 {
		r.AngularTol = DefaultAngularTol
	}
	if r.MaxSupports <= 0 {
		r.MaxSupports = DefaultMaxSupports
	}
	return r
}

// bore is the part of a cylinder or cone that matters for hole matching.
type bore struct {
	axis   geom.Axis
	radius float64
	height float64
	sweep  float64
	cone   bool
	semi   float64
}

func (r *DrillHoleRule) bore(face aag.NodeID) (bore, bool) {
	if c, ok := r.oracle.Cylinder(face); ok && c.Internal {
		return bore{axis: c.Axis, radius: c.Radius, height: c.Height, sweep: c.Sweep()}, true
	}
	if !r.AllowCones {
		return bore{}, false
	}
	if c, ok := r.oracle.Cone(face); ok && c.Internal {
		return bore{axis: c.Axis, radius: c.Radius, height: c.Height, sweep: c.Sweep(), cone: true, semi: c.SemiAngle}, true
	}
	return bore{}, false
}

// Evaluate runs the state machine from seed and returns the candidate. The
// graph is not modified.
func (r *DrillHoleRule) Evaluate(seed aag.NodeID) DrillCandidate {
	c := DrillCandidate{Seed: seed, State: StateSeedRejected}

	// Seed: an internal bounded bore within the radius limit.
	b, ok := r.bore(seed)
	switch {
	case !ok:
		c.Reason = "seed is not an internal bore"
		return c
	case b.height <= 0:
		c.Reason = "seed is unbounded"
		return c
	case r.MaxRadius > 0 && b.radius > r.MaxRadius:
		c.Reason = "seed radius above limit"
		return c
	}
	c.Axis, c.Radius = b.axis, b.radius

	// Core growth.
	c.Core, c.Supports = r.grow(seed, b)
	c.State = StateCoreGrown

	// Supports.
	if n := c.Supports.Len(); n < 1 || n > r.MaxSupports {
		c.Reason = "support count out of range"
		return c
	}
	var area float64
	for id := range c.Supports {
		sb, _ := r.bore(id)
		c.Sweep += sb.sweep
		area += sb.height * sb.sweep
	}
	if _, whole := geom.FullTurns(c.Sweep, r.AngularTol); !whole {
		c.Reason = "swept angle is not a whole number of turns"
		return c
	}
	c.Depth = area / (2 * math.Pi)
	c.State = StateSupportsValidated

	// Endings.
	c.Endings = aag.NewNodeSet()
	view := r.g.View()
	for _, id := range c.Core.Sorted() {
		for _, n := range view.SortedNeighbors(id) {
			if c.Core.Has(n) || c.Endings.Has(n) {
				continue
			}
			if !r.isEnding(id, n, c) {
				c.Reason = "neighbor is not a valid ending"
				return c
			}
			c.Endings.Add(n)
		}
	}
	if c.Endings.Len() == 0 {
		c.Reason = "bore has no endings"
		return c
	}
	c.State = StateEndingsValidated

	// Faces already owned by another hole cannot be shared.
	for id := range c.Core {
		if r.g.Attrs().Has(id, aag.KindDrillHole) {
			c.Reason = "bore overlaps an accepted hole"
			return c
		}
	}
	c.State = StateAccepted
	c.Reason = ""
	return c
}

// grow collects the faces reachable from seed through coaxial bores of the
// same radius and coaxial tori whose major radius matches. It returns the
// core and the bore subset of it.
func (r *DrillHoleRule) grow(seed aag.NodeID, b bore) (aag.NodeSet, aag.NodeSet) {
	core := aag.NewNodeSet()
	supports := aag.NewNodeSet()
	view := r.g.View()

	var visit func(id aag.NodeID)
	visit = func(id aag.NodeID) {
		core.Add(id)
		for _, n := range view.SortedNeighbors(id) {
			if core.Has(n) {
				continue
			}
			if nb, ok := r.bore(n); ok && nb.cone == b.cone &&
				nb.axis.Coaxial(b.axis, r.LinearTol, r.AngularTol) &&
				geom.NearlyEqual(nb.radius, b.radius, r.LinearTol) &&
				geom.NearlyEqual(nb.semi, b.semi, r.AngularTol) {
				supports.Add(n)
				visit(n)
				continue
			}
			if t, ok := r.oracle.Torus(n); ok &&
				t.Axis.Coaxial(b.axis, r.LinearTol, r.AngularTol) &&
				geom.NearlyEqual(t.MajorRadius, b.radius, r.LinearTol) {
				visit(n)
			}
		}
	}
	supports.Add(seed)
	visit(seed)
	return core, supports
}

// isEnding reports whether n, adjacent to core face id, closes the bore.
func (r *DrillHoleRule) isEnding(id, n aag.NodeID, c DrillCandidate) bool {
	if p, ok := r.oracle.Plane(n); ok {
		if !p.Normal.IsParallel(c.Axis.Dir, r.AngularTol) {
			return false
		}
		if !r.g.DihedralKind(id, n).IsConvex() {
			return true
		}
		// An entry face must carry the hole's outline as an inner contour.
		contours, err := r.oracle.InnerContours(n)
		if err != nil {
			r.logger.Debug("contour query failed", "face", n, "err", err)
			return false
		}
		for _, ct := range contours {
			if ct.Circular &&
				c.Axis.Distance(ct.Center) <= r.LinearTol &&
				geom.NearlyEqual(ct.Radius, c.Radius, r.LinearTol) {
				return true
			}
		}
		return false
	}
	if k, ok := r.oracle.Cone(n); ok {
		return k.Axis.Coaxial(c.Axis, r.LinearTol, r.AngularTol)
	}
	if t, ok := r.oracle.Torus(n); ok {
		return t.Axis.Coaxial(c.Axis, r.LinearTol, r.AngularTol)
	}
	return false
}

// Commit attributes an accepted candidate under featureID. Core faces and
// non-planar endings get a [aag.DrillHole] and a [aag.Feature]. It returns
// false and writes nothing unless the candidate is accepted.
func (r *DrillHoleRule) Commit(c DrillCandidate, featureID int) bool {
	if c.State != StateAccepted {
		return false
	}
	attrs := r.g.Attrs()
	for _, id := range c.Core.Sorted() {
		attrs.Set(id, &aag.DrillHole{FeatureID: featureID, Radius: c.Radius, Depth: c.Depth})
		attrs.Set(id, &aag.Feature{ID: featureID, Name: "drill-hole"})
	}
	for _, id := range c.Endings.Sorted() {
		if _, planar := r.oracle.Plane(id); planar {
			continue
		}
		attrs.Set(id, &aag.DrillHole{FeatureID: featureID, Radius: c.Radius, Depth: c.Depth, Ending: true})
		attrs.Set(id, &aag.Feature{ID: featureID, Name: "drill-hole"})
	}
	return true
}

// Hole is an accepted drill hole.
type Hole struct {
	ID      int         `json:"id"`
	Faces   aag.NodeSet `json:"-"`
	Endings aag.NodeSet `json:"-"`
	Axis    geom.Axis   `json:"axis"`
	Radius  float64     `json:"radius"`
	Depth   float64     `json:"depth"`
}

// DrillResult summarizes a drill hole run.
type DrillResult struct {
	Holes []Hole
	// Rejected holds candidates that passed the seed check but failed later.
	Rejected []DrillCandidate
}

// Faces returns the union of all accepted hole faces.
func (r *DrillResult) Faces() aag.NodeSet {
	out := aag.NewNodeSet()
	for _, h := range r.Holes {
		out.Union(h.Faces)
	}
	return out
}

// RecognizeDrillHoles evaluates every face of the current view as a seed and
// commits the accepted holes. Faces absorbed by an accepted hole are not
// tried again as seeds.
func RecognizeDrillHoles(ctx context.Context, g *aag.Graph, o geom.Oracle, opts DrillOptions) (*DrillResult, error) {
	if err := ferrors.ValidateTolerance("max radius", opts.MaxRadius); err != nil {
		return nil, err
	}
	rule := NewDrillHoleRule(g, o, opts)
	logger := rule.logger
	id := opts.FirstFeatureID
	if id <= 0 {
		id = 1
	}

	start := time.Now()
	nodes := g.Nodes()
	observability.Pipeline().OnPassStart(ctx, PassDrillHole, len(nodes))

	res := &DrillResult{}
	claimed := aag.NewNodeSet()
	var err error
	for _, seed := range nodes {
		if err = ctx.Err(); err != nil {
			break
		}
		if claimed.Has(seed) {
			continue
		}
		c := rule.Evaluate(seed)
		switch c.State {
		case StateSeedRejected:
			continue
		case StateAccepted:
			rule.Commit(c, id)
			claimed.Union(c.Core)
			res.Holes = append(res.Holes, Hole{
				ID:      id,
				Faces:   c.Core,
				Endings: c.Endings,
				Axis:    c.Axis,
				Radius:  c.Radius,
				Depth:   c.Depth,
			})
			logger.Debug("drill hole", "id", id, "faces", c.Core, "radius", c.Radius, "depth", c.Depth)
			id++
		default:
			claimed.Union(c.Core)
			res.Rejected = append(res.Rejected, c)
			logger.Debug("rejected drill hole", "seed", seed, "state", c.State, "reason", c.Reason)
		}
	}

	observability.Pipeline().OnPassComplete(ctx, PassDrillHole, len(res.Holes), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Info("recognized drill holes", "holes", len(res.Holes), "rejected", len(res.Rejected))
	return res, nil
}
