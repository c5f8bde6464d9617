// Package recognize implements feature recognition rules on top of the
// attributed adjacency graph.
//
// # Rules
//
// Blend recognition is split into three small rules, each usable as a
// [propagate.Rule]:
//
//   - [EdgeBlendRule] tags curved faces whose radius is within a limit as edge
//     blend candidates and records the role of every boundary.
//   - [VertexBlendRule] re-attributes candidates that join several blends
//     smoothly as vertex blends ("precising").
//   - [TerminatingEdgeReclassifyRule] repairs boundary roles after the other
//     passes; it never blocks.
//
// Each rule has a blocking toggle. With blocking on, a face the rule rejects
// stops propagation, which isolates a single strict feature grown from a seed.
// With blocking off, traversal continues past rejected faces and simply skips
// attribution, which gives an exhaustive sweep. Oracle failures count as
// rejections and are never escalated.
//
// Rules are stateful and not reentrant: create one instance per pass.
//
// # Drill Holes
//
// [DrillHoleRule] is a state machine rather than a local predicate. It grows
// a candidate bore from a seed face, validates its support faces and endings,
// and only then commits attributes. A rejected candidate leaves the graph
// untouched.
//
// # Drivers
//
// [RecognizeBlends] and [RecognizeDrillHoles] run complete passes and report
// what they found. Neither rolls back on failure; callers needing atomicity
// should run them on a [aag.Graph.Copy].
//
// # Chains
//
// [Grouper] regroups recognized blend faces into connected chains of uniform
// radius.
package recognize
