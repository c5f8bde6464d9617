package geom

import (
	"fmt"
	"math"
)

// Vec3 is a point or direction in model space.
type Vec3 struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
	Z float64 `json:"z" toml:"z" yaml:"z"`
}

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// AngleTo returns the angle between v and o in [0, π]. It returns 0 when
// either vector is zero.
func (v Vec3) AngleTo(o Vec3) float64 {
	n := v.Norm() * o.Norm()
	if n == 0 {
		return 0
	}
	c := v.Dot(o) / n
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// IsParallel reports whether v and o point along the same line, in either
// direction, within angTol radians.
func (v Vec3) IsParallel(o Vec3, angTol float64) bool {
	a := v.AngleTo(o)
	return a <= angTol || math.Pi-a <= angTol
}

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool { return v == Vec3{} }

func (v Vec3) String() string { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }

// Axis is an infinite line through Origin along Dir.
type Axis struct {
	Origin Vec3 `json:"origin" toml:"origin" yaml:"origin"`
	Dir    Vec3 `json:"dir" toml:"dir" yaml:"dir"`
}

// Distance returns the distance from p to the axis line.
func (a Axis) Distance(p Vec3) float64 {
	d := a.Dir.Unit()
	if d.IsZero() {
		return p.Sub(a.Origin).Norm()
	}
	return p.Sub(a.Origin).Cross(d).Norm()
}

// Coaxial reports whether a and o describe the same line: their directions
// are parallel within angTol and o's origin lies within linTol of a.
func (a Axis) Coaxial(o Axis, linTol, angTol float64) bool {
	return a.Dir.IsParallel(o.Dir, angTol) && a.Distance(o.Origin) <= linTol
}

// NearlyEqual reports whether |a-b| is within tol.
func NearlyEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
