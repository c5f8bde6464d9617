package io

import (
	"slices"

	"github.com/matzehuels/facetower/pkg/aag"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
	"github.com/matzehuels/facetower/pkg/geom"
)

// Model is a decoded model fixture: the face topology of a solid together
// with the precomputed geometry of each face and the dihedral of each arc.
type Model struct {
	Name  string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Faces []Face `json:"faces" toml:"faces" yaml:"faces"`
	Arcs  []Arc  `json:"arcs" toml:"arcs" yaml:"arcs"`
}

// Face is one face record. Exactly the surface block matching Surface must
// be present; "other" faces carry their radii explicitly.
type Face struct {
	ID         int              `json:"id" toml:"id" yaml:"id"`
	Surface    geom.SurfaceKind `json:"surface" toml:"surface" yaml:"surface"`
	Plane      *geom.Plane      `json:"plane,omitempty" toml:"plane,omitempty" yaml:"plane,omitempty"`
	Cylinder   *geom.Cylinder   `json:"cylinder,omitempty" toml:"cylinder,omitempty" yaml:"cylinder,omitempty"`
	Cone       *geom.Cone       `json:"cone,omitempty" toml:"cone,omitempty" yaml:"cone,omitempty"`
	Torus      *geom.Torus      `json:"torus,omitempty" toml:"torus,omitempty" yaml:"torus,omitempty"`
	Radii      []float64        `json:"radii,omitempty" toml:"radii,omitempty" yaml:"radii,omitempty"`
	Contours   []geom.Contour   `json:"contours,omitempty" toml:"contours,omitempty" yaml:"contours,omitempty"`
	Degenerate bool             `json:"degenerate,omitempty" toml:"degenerate,omitempty" yaml:"degenerate,omitempty"`
}

// Arc is one adjacency record between two faces.
type Arc struct {
	A        int     `json:"a" toml:"a" yaml:"a"`
	B        int     `json:"b" toml:"b" yaml:"b"`
	Dihedral string  `json:"dihedral" toml:"dihedral" yaml:"dihedral"`
	Angle    float64 `json:"angle,omitempty" toml:"angle,omitempty" yaml:"angle,omitempty"`
	Edges    []int   `json:"edges,omitempty" toml:"edges,omitempty" yaml:"edges,omitempty"`
}

// Validate checks the fixture for structural consistency: positive unique
// face ids, a surface block matching each face's surface kind, and arcs
// between distinct known faces with a recognized dihedral kind. Every
// violation is reported as INVALID_FORMAT.
func (m *Model) Validate() error {
	seen := aag.NewNodeSet()
	for i, f := range m.Faces {
		if err := ferrors.ValidateNodeID(f.ID); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "face #%d", i)
		}
		id := aag.NodeID(f.ID)
		if seen.Has(id) {
			return ferrors.New(ferrors.ErrCodeInvalidFormat, "face %d: duplicate id", f.ID)
		}
		seen.Add(id)
		if err := f.validateSurface(); err != nil {
			return err
		}
	}

	arcs := make(map[aag.Arc]bool, len(m.Arcs))
	for _, a := range m.Arcs {
		switch {
		case a.A == a.B:
			return ferrors.New(ferrors.ErrCodeInvalidFormat, "arc %d-%d: self loop", a.A, a.B)
		case !seen.Has(aag.NodeID(a.A)) || !seen.Has(aag.NodeID(a.B)):
			return ferrors.New(ferrors.ErrCodeInvalidFormat, "arc %d-%d: unknown face", a.A, a.B)
		}
		key := aag.NewArc(aag.NodeID(a.A), aag.NodeID(a.B))
		if arcs[key] {
			return ferrors.New(ferrors.ErrCodeInvalidFormat, "arc %s: duplicate", key)
		}
		arcs[key] = true
		if _, ok := aag.ParseDihedralKind(a.Dihedral); !ok {
			return ferrors.New(ferrors.ErrCodeInvalidFormat, "arc %s: unknown dihedral %q", key, a.Dihedral)
		}
	}
	return nil
}

func (f Face) validateSurface() error {
	var ok bool
	switch f.Surface {
	case geom.SurfacePlane:
		ok = f.Plane != nil
	case geom.SurfaceCylinder:
		ok = f.Cylinder != nil
	case geom.SurfaceCone:
		ok = f.Cone != nil
	case geom.SurfaceTorus:
		ok = f.Torus != nil
	case geom.SurfaceOther:
		ok = true
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "face %d: unknown surface %q", f.ID, f.Surface)
	}
	if !ok {
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "face %d: missing %s block", f.ID, f.Surface)
	}
	return nil
}

// FaceIDs returns the face ids in ascending order.
func (m *Model) FaceIDs() []aag.NodeID {
	ids := make([]aag.NodeID, len(m.Faces))
	for i, f := range m.Faces {
		ids[i] = aag.NodeID(f.ID)
	}
	slices.Sort(ids)
	return ids
}

// Adjacency returns each arc once, keyed by its first face.
func (m *Model) Adjacency() map[aag.NodeID][]aag.NodeID {
	adj := make(map[aag.NodeID][]aag.NodeID)
	for _, a := range m.Arcs {
		adj[aag.NodeID(a.A)] = append(adj[aag.NodeID(a.A)], aag.NodeID(a.B))
	}
	return adj
}

// Oracle returns a table oracle serving the fixture's geometry.
func (m *Model) Oracle() *geom.Table {
	t := geom.NewTable()
	for _, f := range m.Faces {
		t.SetFace(aag.NodeID(f.ID), geom.Face{
			Surface:    f.Surface,
			Plane:      f.Plane,
			Cylinder:   f.Cylinder,
			Cone:       f.Cone,
			Torus:      f.Torus,
			Radii:      slices.Clone(f.Radii),
			Contours:   slices.Clone(f.Contours),
			Degenerate: f.Degenerate,
		})
	}
	for _, a := range m.Arcs {
		kind, _ := aag.ParseDihedralKind(a.Dihedral)
		t.SetDihedral(aag.NodeID(a.A), aag.NodeID(a.B), aag.Dihedral{
			Type:  kind,
			Angle: a.Angle,
			Edges: slices.Clone(a.Edges),
		})
	}
	return t
}

// Build validates the fixture and builds its graph and oracle. Arcs whose
// dihedral cannot be classified carry an undefined dihedral.
func (m *Model) Build() (*aag.Graph, *geom.Table, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	o := m.Oracle()
	g, err := aag.Build(m, o)
	if err != nil {
		return nil, nil, err
	}
	return g, o, nil
}
