// Package geom describes the geometry oracle consulted by recognition rules
// and the canonical surface parameters it reports.
//
// The oracle is the boundary between the graph engine and a geometric kernel.
// Real kernels are adapted by implementing [Oracle]; this package ships
// [Table], an in-memory oracle that serves precomputed answers loaded from a
// model fixture.
package geom

import (
	"context"
	"time"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/observability"
)

// Oracle answers geometric questions about the faces of one model.
//
// The surface probes return false when the face is not of that surface type.
// Radii and InnerContours fail with an ORACLE_FAILURE error for degenerate
// or unknown faces; callers treat such failures as a negative classification.
type Oracle interface {
	aag.DihedralClassifier

	Plane(face aag.NodeID) (Plane, bool)
	Cylinder(face aag.NodeID) (Cylinder, bool)
	Cone(face aag.NodeID) (Cone, bool)
	Torus(face aag.NodeID) (Torus, bool)

	// Radii returns the distinct radii of a curved face. Multi-radius
	// toroidal blends report more than one value. Planar faces report none.
	Radii(face aag.NodeID) ([]float64, error)

	// InnerContours returns the inner boundary loops of a face.
	InnerContours(face aag.NodeID) ([]Contour, error)
}

// Classify probes o and returns the surface kind of face.
func Classify(o Oracle, face aag.NodeID) SurfaceKind {
	if _, ok := o.Plane(face); ok {
		return SurfacePlane
	}
	if _, ok := o.Cylinder(face); ok {
		return SurfaceCylinder
	}
	if _, ok := o.Cone(face); ok {
		return SurfaceCone
	}
	if _, ok := o.Torus(face); ok {
		return SurfaceTorus
	}
	return SurfaceOther
}

// Instrument wraps o so that every query is reported to the registered
// observability.Oracle hooks under ctx.
func Instrument(ctx context.Context, o Oracle) Oracle {
	return &instrumented{ctx: ctx, next: o}
}

type instrumented struct {
	ctx  context.Context
	next Oracle
}

func (i *instrumented) report(op string, start time.Time, err error) {
	observability.Oracle().OnQuery(i.ctx, op, time.Since(start), err)
}

func (i *instrumented) ClassifyDihedral(a, b aag.NodeID) (aag.Dihedral, error) {
	start := time.Now()
	d, err := i.next.ClassifyDihedral(a, b)
	i.report("dihedral", start, err)
	return d, err
}

func (i *instrumented) Plane(face aag.NodeID) (Plane, bool) {
	start := time.Now()
	p, ok := i.next.Plane(face)
	i.report("plane", start, nil)
	return p, ok
}

func (i *instrumented) Cylinder(face aag.NodeID) (Cylinder, bool) {
	start := time.Now()
	c, ok := i.next.Cylinder(face)
	i.report("cylinder", start, nil)
	return c, ok
}

func (i *instrumented) Cone(face aag.NodeID) (Cone, bool) {
	start := time.Now()
	c, ok := i.next.Cone(face)
	i.report("cone", start, nil)
	return c, ok
}

func (i *instrumented) Torus(face aag.NodeID) (Torus, bool) {
	start := time.Now()
	t, ok := i.next.Torus(face)
	i.report("torus", start, nil)
	return t, ok
}

func (i *instrumented) Radii(face aag.NodeID) ([]float64, error) {
	start := time.Now()
	r, err := i.next.Radii(face)
	i.report("radii", start, err)
	return r, err
}

func (i *instrumented) InnerContours(face aag.NodeID) ([]Contour, error) {
	start := time.Now()
	c, err := i.next.InnerContours(face)
	i.report("contours", start, err)
	return c, err
}
