package geom

import (
	"slices"

	"github.com/matzehuels/facetower/pkg/aag"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

// Face is the precomputed geometry of one face. Exactly one of the surface
// pointers should be set, matching Surface.
type Face struct {
	Surface  SurfaceKind
	Plane    *Plane
	Cylinder *Cylinder
	Cone     *Cone
	Torus    *Torus

	// Radii overrides the radii derived from the surface. Used for
	// variable-radius blends on freeform surfaces.
	Radii    []float64
	Contours []Contour

	// Degenerate faces make every query that can fail return ORACLE_FAILURE.
	Degenerate bool
}

// Table is a map-backed [Oracle]. The zero value is not usable; use [NewTable].
type Table struct {
	faces     map[aag.NodeID]Face
	dihedrals map[aag.Arc]aag.Dihedral
}

// NewTable creates an empty table oracle.
func NewTable() *Table {
	return &Table{
		faces:     make(map[aag.NodeID]Face),
		dihedrals: make(map[aag.Arc]aag.Dihedral),
	}
}

// SetFace records the geometry of id, replacing any previous entry.
func (t *Table) SetFace(id aag.NodeID, f Face) { t.faces[id] = f }

// SetDihedral records the classification of the arc between a and b.
func (t *Table) SetDihedral(a, b aag.NodeID, d aag.Dihedral) { t.dihedrals[aag.NewArc(a, b)] = d }

// Face returns the recorded geometry of id.
func (t *Table) Face(id aag.NodeID) (Face, bool) {
	f, ok := t.faces[id]
	return f, ok
}

// Len returns the number of faces with recorded geometry.
func (t *Table) Len() int { return len(t.faces) }

func (t *Table) ClassifyDihedral(a, b aag.NodeID) (aag.Dihedral, error) {
	d, ok := t.dihedrals[aag.NewArc(a, b)]
	if !ok {
		return aag.Dihedral{}, ferrors.New(ferrors.ErrCodeOracleFailure, "no dihedral recorded for arc %s", aag.NewArc(a, b))
	}
	if fa, fb := t.faces[a], t.faces[b]; fa.Degenerate || fb.Degenerate {
		return aag.Dihedral{}, ferrors.New(ferrors.ErrCodeOracleFailure, "arc %s touches a degenerate face", aag.NewArc(a, b))
	}
	d.Edges = slices.Clone(d.Edges)
	return d, nil
}

func (t *Table) Plane(id aag.NodeID) (Plane, bool) {
	f, ok := t.faces[id]
	if !ok || f.Surface != SurfacePlane || f.Plane == nil {
		return Plane{}, false
	}
	return *f.Plane, true
}

func (t *Table) Cylinder(id aag.NodeID) (Cylinder, bool) {
	f, ok := t.faces[id]
	if !ok || f.Surface != SurfaceCylinder || f.Cylinder == nil {
		return Cylinder{}, false
	}
	return *f.Cylinder, true
}

func (t *Table) Cone(id aag.NodeID) (Cone, bool) {
	f, ok := t.faces[id]
	if !ok || f.Surface != SurfaceCone || f.Cone == nil {
		return Cone{}, false
	}
	return *f.Cone, true
}

func (t *Table) Torus(id aag.NodeID) (Torus, bool) {
	f, ok := t.faces[id]
	if !ok || f.Surface != SurfaceTorus || f.Torus == nil {
		return Torus{}, false
	}
	return *f.Torus, true
}

// Radii returns the explicit radii of the face when recorded, otherwise the
// radius implied by its surface: the cylinder radius, the torus minor radius
// or the cone reference radius. Planar faces have none.
func (t *Table) Radii(id aag.NodeID) ([]float64, error) {
	f, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	if len(f.Radii) > 0 {
		return slices.Clone(f.Radii), nil
	}
	switch {
	case f.Surface == SurfaceCylinder && f.Cylinder != nil:
		return []float64{f.Cylinder.Radius}, nil
	case f.Surface == SurfaceTorus && f.Torus != nil:
		return []float64{f.Torus.MinorRadius}, nil
	case f.Surface == SurfaceCone && f.Cone != nil:
		return []float64{f.Cone.Radius}, nil
	case f.Surface == SurfacePlane:
		return nil, nil
	}
	return nil, ferrors.New(ferrors.ErrCodeOracleFailure, "cannot classify radius of face %d", id)
}

func (t *Table) InnerContours(id aag.NodeID) ([]Contour, error) {
	f, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(f.Contours), nil
}

func (t *Table) lookup(id aag.NodeID) (Face, error) {
	f, ok := t.faces[id]
	if !ok {
		return Face{}, ferrors.New(ferrors.ErrCodeOracleFailure, "no geometry recorded for face %d", id)
	}
	if f.Degenerate {
		return Face{}, ferrors.New(ferrors.ErrCodeOracleFailure, "face %d is degenerate", id)
	}
	return f, nil
}
