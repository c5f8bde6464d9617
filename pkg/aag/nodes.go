package aag

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// NodeID identifies a face. Valid ids are positive.
type NodeID int

// Arc is an unordered pair of adjacent faces.
// Arcs built with [NewArc] are normalised so that A < B, which makes equality
// and map hashing independent of argument order.
type Arc struct {
	A NodeID
	B NodeID
}

// NewArc returns the normalised arc between a and b.
func NewArc(a, b NodeID) Arc {
	if a > b {
		a, b = b, a
	}
	return Arc{A: a, B: b}
}

// Other returns the endpoint opposite to id. It returns 0 if id is not an
// endpoint of the arc.
func (a Arc) Other(id NodeID) NodeID {
	switch id {
	case a.A:
		return a.B
	case a.B:
		return a.A
	}
	return 0
}

// String formats the arc as "(a, b)".
func (a Arc) String() string { return fmt.Sprintf("(%d, %d)", a.A, a.B) }

// NodeSet is a set of face ids. The zero value is a nil map and is only safe
// for reading; use [NewNodeSet] before adding elements.
type NodeSet map[NodeID]struct{}

// NewNodeSet creates a set holding ids.
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts ids into the set.
func (s NodeSet) Add(ids ...NodeID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Has reports whether id is in the set.
func (s NodeSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// Remove deletes id from the set.
func (s NodeSet) Remove(id NodeID) { delete(s, id) }

// Len returns the number of elements.
func (s NodeSet) Len() int { return len(s) }

// Sorted returns the elements in ascending order.
func (s NodeSet) Sorted() []NodeID { return slices.Sorted(maps.Keys(s)) }

// Min returns the smallest element, or 0 for an empty set.
func (s NodeSet) Min() NodeID {
	var m NodeID
	for id := range s {
		if m == 0 || id < m {
			m = id
		}
	}
	return m
}

// Clone returns an independent copy. Cloning a nil set yields an empty set.
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Union adds every element of o to s.
func (s NodeSet) Union(o NodeSet) {
	for id := range o {
		s[id] = struct{}{}
	}
}

// Intersect returns the elements present in both sets.
func (s NodeSet) Intersect(o NodeSet) NodeSet {
	out := make(NodeSet)
	for id := range s {
		if o.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold the same elements.
func (s NodeSet) Equal(o NodeSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// String formats the set as "{1 2 3}" in ascending order.
func (s NodeSet) String() string {
	ids := s.Sorted()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(int(id))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// SortSets orders sets by their smallest element. Components and chains are
// returned in this order so output is deterministic.
func SortSets(sets []NodeSet) {
	slices.SortFunc(sets, func(a, b NodeSet) int { return cmp.Compare(a.Min(), b.Min()) })
}
