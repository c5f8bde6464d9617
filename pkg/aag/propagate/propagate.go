// Package propagate implements rule-driven breadth-first traversal over an
// attributed adjacency graph.
//
// An [Iterator] starts from one or more seed faces and walks outward. For
// every unvisited neighbor it asks a [Rule] whether the neighbor blocks. A
// blocking neighbor is visited and yielded but never expanded, so a rule acts
// as a local stop condition: traversal cannot pass through it.
//
// Each face is visited at most once, so traversal terminates on any finite
// graph, cycles included. Neighbors are expanded in ascending id order, which
// makes the visiting order deterministic.
//
// Iterators are pull-based and cannot be restarted. Structural mutation of the
// graph (push, pop, remove) while an iterator is live invalidates it: the next
// call to [Iterator.Next] stops and [Iterator.Err] reports INVALID_STATE.
// Attribute writes are not structural and are allowed, which is how
// recognition rules attach results during traversal.
package propagate

import (
	"iter"

	"github.com/matzehuels/facetower/pkg/aag"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

// Rule decides whether traversal stops at next when reached from current.
type Rule interface {
	IsBlocking(current, next aag.NodeID) bool
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(current, next aag.NodeID) bool

// IsBlocking calls f(current, next).
func (f RuleFunc) IsBlocking(current, next aag.NodeID) bool { return f(current, next) }

// Never is a rule that never blocks; it visits every face reachable from the
// seeds.
var Never Rule = RuleFunc(func(aag.NodeID, aag.NodeID) bool { return false })

// Option configures an Iterator.
type Option func(*Iterator)

// WithView makes the iterator read adjacency from v instead of the graph's
// current view. The graph's structural version is still checked.
func WithView(v *aag.View) Option {
	return func(it *Iterator) {
		if v != nil {
			it.view = v
		}
	}
}

// Iterator is a lazy breadth-first traversal. Create it with [New].
type Iterator struct {
	g       *aag.Graph
	view    *aag.View
	rule    Rule
	version uint64

	queue   []aag.NodeID
	visited aag.NodeSet
	blocked aag.NodeSet
	err     error
	done    bool
}

// New creates an iterator over g starting at seeds.
//
// Seeds must belong to the graph's master id space; anything else fails with
// INVALID_SEED, as does an empty seed list. Seeds that are valid but unbound
// in the traversed view are skipped. Seeds are never tested against the rule.
func New(g *aag.Graph, rule Rule, seeds []aag.NodeID, opts ...Option) (*Iterator, error) {
	if len(seeds) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidSeed, "at least one seed is required")
	}
	for _, s := range seeds {
		if !g.InMaster(s) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidSeed, "seed %d is not in the master id space", s)
		}
	}
	if rule == nil {
		rule = Never
	}

	it := &Iterator{
		g:       g,
		view:    g.View(),
		rule:    rule,
		version: g.Version(),
		visited: make(aag.NodeSet),
		blocked: make(aag.NodeSet),
	}
	for _, opt := range opts {
		opt(it)
	}
	for _, s := range seeds {
		if it.visited.Has(s) || !it.view.HasNode(s) {
			continue
		}
		it.visited.Add(s)
		it.queue = append(it.queue, s)
	}
	return it, nil
}

// Next returns the next face in traversal order. It returns false when the
// frontier is exhausted or the iterator was invalidated; check [Iterator.Err]
// to tell the two apart.
func (it *Iterator) Next() (aag.NodeID, bool) {
	if it.done {
		return 0, false
	}
	if it.g.Version() != it.version {
		it.err = ferrors.New(ferrors.ErrCodeInvalidState, "graph changed structurally during traversal")
		it.done = true
		return 0, false
	}
	if len(it.queue) == 0 {
		it.done = true
		return 0, false
	}

	cur := it.queue[0]
	it.queue = it.queue[1:]
	if !it.blocked.Has(cur) {
		it.expand(cur)
	}
	return cur, true
}

func (it *Iterator) expand(cur aag.NodeID) {
	for _, next := range it.view.SortedNeighbors(cur) {
		if it.visited.Has(next) {
			continue
		}
		it.visited.Add(next)
		if it.rule.IsBlocking(cur, next) {
			it.blocked.Add(next)
		}
		it.queue = append(it.queue, next)
	}
}

// All returns the remaining traversal as a sequence.
//
//	for id := range it.All() {
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
func (it *Iterator) All() iter.Seq[aag.NodeID] {
	return func(yield func(aag.NodeID) bool) {
		for {
			id, ok := it.Next()
			if !ok || !yield(id) {
				return
			}
		}
	}
}

// Visited returns every face discovered so far, blocked ones included.
func (it *Iterator) Visited() aag.NodeSet { return it.visited.Clone() }

// Blocked returns the faces at which the rule stopped traversal.
func (it *Iterator) Blocked() aag.NodeSet { return it.blocked.Clone() }

// Err returns the error that stopped the iterator, if any.
func (it *Iterator) Err() error { return it.err }

// Walk drains a new iterator and returns the set of visited faces.
func Walk(g *aag.Graph, rule Rule, seeds []aag.NodeID, opts ...Option) (aag.NodeSet, error) {
	it, err := New(g, rule, seeds, opts...)
	if err != nil {
		return nil, err
	}
	for range it.All() {
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return it.visited, nil
}
