// Package nodelink renders attributed adjacency graphs as node-link
// diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true, Oracle: oracle})
//	svg, err := nodelink.RenderSVG(dot)
//
// Only the current view is drawn, so pushing a subgraph before rendering
// shows just that region of the model.
//
// # Styling
//
// Faces are filled by role: drill hole faces light blue, drill hole caps
// light cyan, vertex blends orange, edge blends gold, everything else white.
// Arcs are solid for convex, dashed red for concave and dotted for smooth
// dihedrals.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
