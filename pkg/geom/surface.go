package geom

import "math"

// SurfaceKind names the canonical surface type underlying a face.
type SurfaceKind string

const (
	SurfacePlane    SurfaceKind = "plane"
	SurfaceCylinder SurfaceKind = "cylinder"
	SurfaceCone     SurfaceKind = "cone"
	SurfaceTorus    SurfaceKind = "torus"
	SurfaceOther    SurfaceKind = "other"
)

// Plane is a planar face.
type Plane struct {
	Origin Vec3 `json:"origin" toml:"origin" yaml:"origin"`
	Normal Vec3 `json:"normal" toml:"normal" yaml:"normal"`
}

// Cylinder is a cylindrical face bounded in height and in angle. Internal is
// true when the material lies outside the cylinder, as for a bore.
type Cylinder struct {
	Axis     Axis    `json:"axis" toml:"axis" yaml:"axis"`
	Radius   float64 `json:"radius" toml:"radius" yaml:"radius"`
	Height   float64 `json:"height" toml:"height" yaml:"height"`
	MinAngle float64 `json:"min_angle" toml:"min_angle" yaml:"min_angle"`
	MaxAngle float64 `json:"max_angle" toml:"max_angle" yaml:"max_angle"`
	Internal bool    `json:"internal" toml:"internal" yaml:"internal"`
}

// Sweep returns the angular range covered by the face in radians.
func (c Cylinder) Sweep() float64 { return sweep(c.MinAngle, c.MaxAngle) }

// Cone is a conical face. Radius is measured at the axis origin.
type Cone struct {
	Axis      Axis    `json:"axis" toml:"axis" yaml:"axis"`
	Radius    float64 `json:"radius" toml:"radius" yaml:"radius"`
	SemiAngle float64 `json:"semi_angle" toml:"semi_angle" yaml:"semi_angle"`
	Height    float64 `json:"height" toml:"height" yaml:"height"`
	MinAngle  float64 `json:"min_angle" toml:"min_angle" yaml:"min_angle"`
	MaxAngle  float64 `json:"max_angle" toml:"max_angle" yaml:"max_angle"`
	Internal  bool    `json:"internal" toml:"internal" yaml:"internal"`
}

// Sweep returns the angular range covered by the face in radians.
func (c Cone) Sweep() float64 { return sweep(c.MinAngle, c.MaxAngle) }

// Torus is a toroidal face. Blends between a bore and its cap are tori whose
// major radius equals the bore radius.
type Torus struct {
	Axis        Axis    `json:"axis" toml:"axis" yaml:"axis"`
	MajorRadius float64 `json:"major_radius" toml:"major_radius" yaml:"major_radius"`
	MinorRadius float64 `json:"minor_radius" toml:"minor_radius" yaml:"minor_radius"`
	MinAngle    float64 `json:"min_angle" toml:"min_angle" yaml:"min_angle"`
	MaxAngle    float64 `json:"max_angle" toml:"max_angle" yaml:"max_angle"`
}

// Sweep returns the angular range covered by the face in radians.
func (t Torus) Sweep() float64 { return sweep(t.MinAngle, t.MaxAngle) }

// Contour is an inner boundary loop of a face. Circular contours carry their
// center and radius.
type Contour struct {
	Center   Vec3    `json:"center" toml:"center" yaml:"center"`
	Normal   Vec3    `json:"normal" toml:"normal" yaml:"normal"`
	Radius   float64 `json:"radius" toml:"radius" yaml:"radius"`
	Circular bool    `json:"circular" toml:"circular" yaml:"circular"`
}

func sweep(lo, hi float64) float64 {
	s := hi - lo
	if s < 0 {
		s = -s
	}
	return s
}

// FullTurns returns how many whole turns angle covers, and whether angle is a
// whole number of turns (at least one) within tol radians.
func FullTurns(angle, tol float64) (int, bool) {
	k := int(math.Round(angle / (2 * math.Pi)))
	if k < 1 {
		return 0, false
	}
	return k, math.Abs(angle-float64(k)*2*math.Pi) <= tol
}
