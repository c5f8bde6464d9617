package recognize

import (
	"maps"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/geom"
)

// model assembles a graph and a table oracle from faces and classified arcs.
type model struct {
	t     *testing.T
	table *geom.Table
	faces aag.NodeSet
	adj   map[aag.NodeID][]aag.NodeID
}

func newModel(t *testing.T) *model {
	t.Helper()
	return &model{
		t:     t,
		table: geom.NewTable(),
		faces: aag.NewNodeSet(),
		adj:   make(map[aag.NodeID][]aag.NodeID),
	}
}

func (m *model) face(id aag.NodeID, f geom.Face) *model {
	m.faces.Add(id)
	m.table.SetFace(id, f)
	return m
}

func (m *model) arc(a, b aag.NodeID, kind aag.DihedralKind) *model {
	m.adj[a] = append(m.adj[a], b)
	m.table.SetDihedral(a, b, aag.Dihedral{Type: kind})
	return m
}

func (m *model) FaceIDs() []aag.NodeID                  { return m.faces.Sorted() }
func (m *model) Adjacency() map[aag.NodeID][]aag.NodeID { return maps.Clone(m.adj) }

func (m *model) build() (*aag.Graph, *geom.Table) {
	m.t.Helper()
	g, err := aag.Build(m, m.table)
	if err != nil {
		m.t.Fatalf("aag.Build: %v", err)
	}
	return g, m.table
}

var zAxis = geom.Axis{Dir: geom.V(0, 0, 1)}

func blendFace(r float64) geom.Face {
	return geom.Face{
		Surface:  geom.SurfaceCylinder,
		Cylinder: &geom.Cylinder{Axis: geom.Axis{Dir: geom.V(1, 0, 0)}, Radius: r, Height: 10, MaxAngle: math.Pi / 2},
	}
}

func cornerFace(r float64) geom.Face {
	return geom.Face{Surface: geom.SurfaceOther, Radii: []float64{r}}
}

func planeFace(normal geom.Vec3, contours ...geom.Contour) geom.Face {
	return geom.Face{Surface: geom.SurfacePlane, Plane: &geom.Plane{Normal: normal}, Contours: contours}
}

func boreFace(r, height, from, to float64) geom.Face {
	return geom.Face{
		Surface: geom.SurfaceCylinder,
		Cylinder: &geom.Cylinder{
			Axis: zAxis, Radius: r, Height: height,
			MinAngle: from, MaxAngle: to, Internal: true,
		},
	}
}

func circle(center geom.Vec3, r float64) geom.Contour {
	return geom.Contour{Center: center, Normal: geom.V(0, 0, 1), Radius: r, Circular: true}
}

func equalIDs(a aag.NodeSet, want ...aag.NodeID) bool {
	return slices.Equal(a.Sorted(), want)
}
