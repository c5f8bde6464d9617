package aag

import (
	"maps"
	"slices"
)

// Kind identifies an attribute type. A node or arc holds at most one
// attribute per kind.
type Kind int

const (
	// KindDihedral marks the dihedral classification of an arc.
	KindDihedral Kind = iota + 1
	// KindBlendCandidate marks a face recognised as part of a blend.
	KindBlendCandidate
	// KindDrillHole marks a face belonging to an accepted drill hole.
	KindDrillHole
	// KindFeature tags a face with the id of the feature that owns it.
	KindFeature
)

var kindNames = map[Kind]string{
	KindDihedral:       "dihedral",
	KindBlendCandidate: "blend-candidate",
	KindDrillHole:      "drill-hole",
	KindFeature:        "feature",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Attribute is the closed set of metadata values that can be attached to a
// node or an arc. Implementations live in this package only.
type Attribute interface {
	// Kind returns the attribute type key.
	Kind() Kind
	// Clone returns a deep copy.
	Clone() Attribute

	sealed()
}

// DihedralKind classifies the angle between two adjacent faces measured
// through the material.
type DihedralKind int

const (
	DihedralUndefined DihedralKind = iota
	DihedralConvex
	DihedralConcave
	DihedralSmooth
	DihedralSmoothConvex
	DihedralSmoothConcave
)

var dihedralNames = []string{"undefined", "convex", "concave", "smooth", "smooth-convex", "smooth-concave"}

func (d DihedralKind) String() string {
	if int(d) >= 0 && int(d) < len(dihedralNames) {
		return dihedralNames[d]
	}
	return "undefined"
}

// IsSmooth reports whether the faces meet tangentially.
func (d DihedralKind) IsSmooth() bool {
	return d == DihedralSmooth || d == DihedralSmoothConvex || d == DihedralSmoothConcave
}

// IsConvex reports whether the arc is convex, sharp or smooth.
func (d DihedralKind) IsConvex() bool { return d == DihedralConvex || d == DihedralSmoothConvex }

// IsConcave reports whether the arc is concave, sharp or smooth.
func (d DihedralKind) IsConcave() bool { return d == DihedralConcave || d == DihedralSmoothConcave }

// ParseDihedralKind converts the names produced by String back to a kind.
// Unknown names map to DihedralUndefined and false.
func ParseDihedralKind(s string) (DihedralKind, bool) {
	for i, n := range dihedralNames {
		if n == s {
			return DihedralKind(i), true
		}
	}
	return DihedralUndefined, false
}

// Dihedral is the arc attribute recorded at build time.
type Dihedral struct {
	Type  DihedralKind
	Angle float64 // radians, measured through the material
	Edges []int   // ids of the shared boundary edges
}

func (*Dihedral) Kind() Kind { return KindDihedral }
func (*Dihedral) sealed()    {}

// Clone returns a deep copy.
func (d *Dihedral) Clone() Attribute {
	c := *d
	c.Edges = slices.Clone(d.Edges)
	return &c
}

// BlendType distinguishes edge blends from vertex blends.
type BlendType int

const (
	BlendUnknown BlendType = iota
	BlendEdge
	BlendVertex
)

func (b BlendType) String() string {
	switch b {
	case BlendEdge:
		return "edge"
	case BlendVertex:
		return "vertex"
	}
	return "unknown"
}

// EdgeRole classifies the boundary between a blend face and one neighbor.
type EdgeRole int

const (
	// RoleSmooth is a tangential boundary with a support face or another blend.
	RoleSmooth EdgeRole = iota + 1
	// RoleTerminating is a sharp boundary where the blend ends.
	RoleTerminating
	// RoleCross is a terminating boundary whose opposite face is not a blend.
	RoleCross
)

func (r EdgeRole) String() string {
	switch r {
	case RoleSmooth:
		return "smooth"
	case RoleTerminating:
		return "terminating"
	case RoleCross:
		return "cross"
	}
	return "unknown"
}

// BlendCandidate marks a face as part of a rounding feature.
type BlendCandidate struct {
	Type   BlendType
	Radii  []float64
	Length float64
	// Roles maps each neighbor to the role of the shared boundary.
	Roles map[NodeID]EdgeRole
}

func (*BlendCandidate) Kind() Kind { return KindBlendCandidate }
func (*BlendCandidate) sealed()    {}

// Clone returns a deep copy.
func (b *BlendCandidate) Clone() Attribute {
	c := *b
	c.Radii = slices.Clone(b.Radii)
	c.Roles = maps.Clone(b.Roles)
	return &c
}

// Radius returns the smallest recorded radius, or 0 if none is known.
func (b *BlendCandidate) Radius() float64 {
	if len(b.Radii) == 0 {
		return 0
	}
	return slices.Min(b.Radii)
}

// WithRole returns the neighbors whose boundary has role r.
func (b *BlendCandidate) WithRole(r EdgeRole) NodeSet {
	out := make(NodeSet)
	for id, role := range b.Roles {
		if role == r {
			out[id] = struct{}{}
		}
	}
	return out
}

// DrillHole marks a face as a member of an accepted drill hole.
type DrillHole struct {
	FeatureID int
	Radius    float64
	Depth     float64
	Ending    bool // true for caps, false for bore faces
}

func (*DrillHole) Kind() Kind { return KindDrillHole }
func (*DrillHole) sealed()    {}

// Clone returns a deep copy.
func (h *DrillHole) Clone() Attribute {
	c := *h
	return &c
}

// Feature tags a face with the feature that owns it.
type Feature struct {
	ID   int
	Name string
}

func (*Feature) Kind() Kind { return KindFeature }
func (*Feature) sealed()    {}

// Clone returns a deep copy.
func (f *Feature) Clone() Attribute {
	c := *f
	return &c
}

// AttributeStore holds node attributes keyed by (node, kind).
// The zero value is not usable; use [NewAttributeStore].
//
// The store owned by a [Graph] only accepts ids from the graph's master id
// space. A store created with NewAttributeStore accepts any id.
type AttributeStore struct {
	attrs  map[NodeID]map[Kind]Attribute
	master NodeSet // nil means unbounded
}

// NewAttributeStore creates an empty store.
func NewAttributeStore() *AttributeStore {
	return &AttributeStore{attrs: make(map[NodeID]map[Kind]Attribute)}
}

// Get returns the attribute of the given kind bound to id.
func (s *AttributeStore) Get(id NodeID, kind Kind) (Attribute, bool) {
	a, ok := s.attrs[id][kind]
	return a, ok
}

// Has reports whether an attribute of kind is bound to id.
func (s *AttributeStore) Has(id NodeID, kind Kind) bool {
	_, ok := s.attrs[id][kind]
	return ok
}

// Set binds a to id. It returns false and leaves the existing value untouched
// if an attribute of the same kind is already bound, or if the store belongs
// to a graph and id is outside its master id space.
func (s *AttributeStore) Set(id NodeID, a Attribute) bool {
	if s.master != nil && !s.master.Has(id) {
		return false
	}
	set, ok := s.attrs[id]
	if !ok {
		set = make(map[Kind]Attribute)
		s.attrs[id] = set
	}
	if _, bound := set[a.Kind()]; bound {
		return false
	}
	set[a.Kind()] = a
	return true
}

// Remove unbinds the attribute of kind from id and reports whether one was bound.
func (s *AttributeStore) Remove(id NodeID, kind Kind) bool {
	set, ok := s.attrs[id]
	if !ok {
		return false
	}
	if _, bound := set[kind]; !bound {
		return false
	}
	delete(set, kind)
	if len(set) == 0 {
		delete(s.attrs, id)
	}
	return true
}

// Purge drops every attribute bound to id.
func (s *AttributeStore) Purge(id NodeID) { delete(s.attrs, id) }

// All returns the attributes bound to id ordered by kind.
func (s *AttributeStore) All(id NodeID) []Attribute {
	set := s.attrs[id]
	out := make([]Attribute, 0, len(set))
	for _, k := range slices.Sorted(maps.Keys(set)) {
		out = append(out, set[k])
	}
	return out
}

// NodesWith returns the nodes holding an attribute of kind.
func (s *AttributeStore) NodesWith(kind Kind) NodeSet {
	out := make(NodeSet)
	for id, set := range s.attrs {
		if _, ok := set[kind]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Len returns the number of nodes holding at least one attribute.
func (s *AttributeStore) Len() int { return len(s.attrs) }

// Clone returns a deep copy of the store and every attribute in it.
func (s *AttributeStore) Clone() *AttributeStore {
	c := NewAttributeStore()
	c.master = s.master
	for id, set := range s.attrs {
		cs := make(map[Kind]Attribute, len(set))
		for k, a := range set {
			cs[k] = a.Clone()
		}
		c.attrs[id] = cs
	}
	return c
}

// AttrOf returns the attribute of type T bound to id.
//
//	bc, ok := aag.AttrOf[*aag.BlendCandidate](g.Attrs(), id)
func AttrOf[T Attribute](s *AttributeStore, id NodeID) (T, bool) {
	var zero T
	a, ok := s.Get(id, zero.Kind())
	if !ok {
		return zero, false
	}
	t, ok := a.(T)
	return t, ok
}
