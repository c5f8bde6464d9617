package recognize

import (
	"cmp"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
)

// Grouping defaults.
const (
	DefaultTolerancePct = 1.0
	DefaultPrecision    = 3
)

// Chain is a connected group of blend faces sharing one radius.
type Chain struct {
	Faces  aag.NodeSet `json:"-"`
	Radius float64     `json:"radius"`
	Length float64     `json:"length"`
}

// GroupResult is the output of [Grouper.Group].
type GroupResult struct {
	// Chains are ordered by their smallest face id.
	Chains []Chain
	// Corners holds dangling vertex blends removed from their chain.
	Corners aag.NodeSet
}

// Grouper splits recognized blend faces into chains.
//
// Faces are first split into connected components of the current view, then
// bucketed by radius: a face joins the first bucket whose radius deviates from
// its own by less than TolerancePct percent. Each bucket is split again into
// connected components, so disjoint patches of equal radius become separate
// chains. Finally, vertex blends hanging off a chain by a single face are
// removed; a removed corner that no longer touches any chain is kept as a
// chain of its own.
type Grouper struct {
	TolerancePct float64
	// Precision is the number of decimal places radii are rounded to.
	Precision int
	Logger    *log.Logger
}

// NewGrouper returns a grouper with the default tolerance and precision.
func NewGrouper(logger *log.Logger) Grouper {
	return Grouper{TolerancePct: DefaultTolerancePct, Precision: DefaultPrecision, Logger: logger}
}

type bucket struct {
	radius float64
	faces  aag.NodeSet
}

// Group regroups faces over the current view of g.
func (gr Grouper) Group(g *aag.Graph, faces aag.NodeSet) GroupResult {
	logger := discardLogger(gr.Logger)
	res := GroupResult{Corners: aag.NewNodeSet()}

	var chains []Chain
	for _, comp := range g.ConnectedComponents(faces) {
		for _, b := range gr.buckets(g, comp) {
			for _, part := range g.ConnectedComponents(b.faces) {
				chains = append(chains, Chain{Faces: part, Radius: b.radius})
			}
		}
	}

	// Dangling corners, first pass: strip them from their chains.
	var removed []aag.NodeID
	for i := range chains {
		removed = append(removed, stripCorners(g, chains[i].Faces)...)
	}

	// Second pass: keep corners that would otherwise be lost. Only the
	// stripped chains count, not singletons re-inserted here.
	stripped := chains
	for _, id := range removed {
		if touchesChain(g, id, stripped) {
			res.Corners.Add(id)
			continue
		}
		chains = append(chains, Chain{Faces: aag.NewNodeSet(id), Radius: gr.radius(g, id)})
		logger.Debug("kept isolated corner", "face", id)
	}

	for _, c := range chains {
		if c.Faces.Len() == 0 {
			continue
		}
		for id := range c.Faces {
			if bc, ok := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), id); ok {
				c.Length += bc.Length
			}
		}
		res.Chains = append(res.Chains, c)
	}
	sortChains(res.Chains)
	logger.Debug("grouped chains", "faces", faces.Len(), "chains", len(res.Chains), "corners", res.Corners.Len())
	return res
}

func (gr Grouper) buckets(g *aag.Graph, comp aag.NodeSet) []bucket {
	var out []bucket
	for _, id := range comp.Sorted() {
		r := gr.radius(g, id)
		placed := false
		for i := range out {
			if gr.matches(out[i].radius, r) {
				out[i].faces.Add(id)
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, bucket{radius: r, faces: aag.NewNodeSet(id)})
		}
	}
	return out
}

func (gr Grouper) matches(ref, r float64) bool {
	if r == ref {
		return true
	}
	if ref == 0 {
		return false
	}
	return math.Abs(r-ref)/math.Abs(ref)*100 < gr.TolerancePct
}

func (gr Grouper) radius(g *aag.Graph, id aag.NodeID) float64 {
	bc, ok := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), id)
	if !ok {
		return 0
	}
	p := math.Pow(10, float64(gr.Precision))
	return math.Round(bc.Radius()*p) / p
}

// stripCorners removes vertex blends with exactly one neighbor inside chain
// and returns them in ascending order. Neighbors are counted against the
// chain as it was on entry.
func stripCorners(g *aag.Graph, chain aag.NodeSet) []aag.NodeID {
	if chain.Len() < 2 {
		return nil
	}
	view := g.View()
	orig := chain.Clone()
	var removed []aag.NodeID
	for _, id := range orig.Sorted() {
		bc, ok := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), id)
		if !ok || bc.Type != aag.BlendVertex {
			continue
		}
		inside := 0
		for _, n := range view.SortedNeighbors(id) {
			if orig.Has(n) {
				inside++
			}
		}
		if inside == 1 {
			chain.Remove(id)
			removed = append(removed, id)
		}
	}
	return removed
}

func touchesChain(g *aag.Graph, id aag.NodeID, chains []Chain) bool {
	for _, n := range g.View().SortedNeighbors(id) {
		for _, c := range chains {
			if c.Faces.Has(n) {
				return true
			}
		}
	}
	return false
}

func sortChains(chains []Chain) {
	slices.SortFunc(chains, func(a, b Chain) int { return cmp.Compare(a.Faces.Min(), b.Faces.Min()) })
}
