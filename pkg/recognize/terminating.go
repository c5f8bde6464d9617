package recognize

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
)

// TerminatingEdgeReclassifyRule repairs blend boundary roles: a terminating
// boundary whose opposite face is not a blend candidate becomes a cross
// boundary. It never blocks.
type TerminatingEdgeReclassifyRule struct {
	g       *aag.Graph
	logger  *log.Logger
	done    aag.NodeSet
	changed int
}

// NewTerminatingEdgeReclassifyRule creates a rule for one pass over g.
func NewTerminatingEdgeReclassifyRule(g *aag.Graph, logger *log.Logger) *TerminatingEdgeReclassifyRule {
	return &TerminatingEdgeReclassifyRule{
		g:      g,
		logger: discardLogger(logger),
		done:   make(aag.NodeSet),
	}
}

// IsBlocking repairs next and returns false.
func (r *TerminatingEdgeReclassifyRule) IsBlocking(_, next aag.NodeID) bool {
	r.Repair(next)
	return false
}

// Repair reclassifies the terminating boundaries of face. Faces without a
// blend candidate are left alone. Each face is repaired at most once.
func (r *TerminatingEdgeReclassifyRule) Repair(face aag.NodeID) {
	if r.done.Has(face) {
		return
	}
	r.done.Add(face)

	bc, ok := aag.AttrOf[*aag.BlendCandidate](r.g.Attrs(), face)
	if !ok {
		return
	}
	var fixed *aag.BlendCandidate
	for _, n := range bc.WithRole(aag.RoleTerminating).Sorted() {
		if isCandidate(r.g, n) {
			continue
		}
		if fixed == nil {
			fixed = bc.Clone().(*aag.BlendCandidate)
		}
		fixed.Roles[n] = aag.RoleCross
		r.changed++
	}
	if fixed == nil {
		return
	}
	r.g.Attrs().Remove(face, aag.KindBlendCandidate)
	r.g.Attrs().Set(face, fixed)
	r.logger.Debug("reclassified terminating edges", "face", face, "cross", fixed.WithRole(aag.RoleCross))
}

// Changed returns how many boundary roles were rewritten.
func (r *TerminatingEdgeReclassifyRule) Changed() int { return r.changed }
