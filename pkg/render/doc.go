// Package render provides visualization rendering for attributed adjacency
// graphs.
//
// The [nodelink] subpackage renders a graph as a node-link diagram using
// Graphviz: faces become nodes filled by the feature they belong to, and
// arcs are styled by their dihedral classification.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/facetower/pkg/render/nodelink
package render
