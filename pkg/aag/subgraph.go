package aag

import (
	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

// Scope pops the view it was created for when closed. It is returned by the
// push methods and is intended for use with defer:
//
//	scope, err := g.PushSubgraphExcluding(done)
//	if err != nil {
//	    return err
//	}
//	defer scope.Close()
type Scope struct {
	g      *Graph
	view   *View
	closed bool
}

// View returns the view the scope pushed. The handle stays valid until the
// scope is closed.
func (s *Scope) View() *View { return s.view }

// Close pops the scope's view. If inner scopes were leaked on top of it they
// are popped as well. Closing twice, or closing a scope whose view was already
// popped with [Graph.PopSubgraph], is a no-op.
func (s *Scope) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	idx := -1
	for i, v := range s.g.views {
		if v == s.view {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil
	}
	s.g.views = s.g.views[:idx]
	s.g.version++
	return nil
}

// PushSubgraph pushes the current view restricted to keep and returns a guard
// that pops it. Ids in keep that are not bound in the current view are
// ignored; ids outside the master space fail with INVALID_SEED.
func (g *Graph) PushSubgraph(keep NodeSet) (*Scope, error) {
	if err := g.checkSeeds(keep); err != nil {
		return nil, err
	}
	return g.push(g.current().restrict(keep.Has)), nil
}

// PushSubgraphExcluding pushes the current view minus drop.
func (g *Graph) PushSubgraphExcluding(drop NodeSet) (*Scope, error) {
	if err := g.checkSeeds(drop); err != nil {
		return nil, err
	}
	return g.push(g.current().restrict(func(id NodeID) bool { return !drop.Has(id) })), nil
}

// PopSubgraph pops the current view. It fails with EMPTY_STACK when only the
// base view remains.
func (g *Graph) PopSubgraph() error {
	if len(g.views) == 1 {
		return ferrors.New(ferrors.ErrCodeEmptyStack, "cannot pop the base view")
	}
	g.views = g.views[:len(g.views)-1]
	g.version++
	return nil
}

// Depth returns the number of views on the stack, including the base view.
func (g *Graph) Depth() int { return len(g.views) }

func (g *Graph) push(v *View) *Scope {
	g.views = append(g.views, v)
	g.version++
	return &Scope{g: g, view: v}
}

func (g *Graph) checkSeeds(ids NodeSet) error {
	for _, id := range ids.Sorted() {
		if !g.master.Has(id) {
			return ferrors.New(ferrors.ErrCodeInvalidSeed, "face %d is not in the master id space", id)
		}
	}
	return nil
}
