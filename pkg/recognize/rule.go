package recognize

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
)

// Stats counts the decisions a rule made during one pass.
type Stats struct {
	Evaluated int `json:"evaluated"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	// OracleFailures counts rejections caused by an oracle error.
	OracleFailures int `json:"oracle_failures"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Evaluated:      s.Evaluated + o.Evaluated,
		Accepted:       s.Accepted + o.Accepted,
		Rejected:       s.Rejected + o.Rejected,
		OracleFailures: s.OracleFailures + o.OracleFailures,
	}
}

func discardLogger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// memo caches per-face decisions so that a face reached along several arcs
// is classified once.
type memo map[aag.NodeID]bool

func (m memo) lookup(id aag.NodeID) (bool, bool) {
	v, ok := m[id]
	return v, ok
}

// roles classifies every boundary of face in view by its dihedral kind:
// smooth arcs are RoleSmooth, everything else RoleTerminating.
func roles(g *aag.Graph, view *aag.View, face aag.NodeID) map[aag.NodeID]aag.EdgeRole {
	out := make(map[aag.NodeID]aag.EdgeRole)
	for _, n := range view.SortedNeighbors(face) {
		if g.DihedralKind(face, n).IsSmooth() {
			out[n] = aag.RoleSmooth
		} else {
			out[n] = aag.RoleTerminating
		}
	}
	return out
}

func isCandidate(g *aag.Graph, id aag.NodeID) bool {
	return g.Attrs().Has(id, aag.KindBlendCandidate)
}
