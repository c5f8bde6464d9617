package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/geom"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds surface and attribute details to node labels.
	// When false, only the face id is shown.
	Detailed bool

	// Oracle, when set, supplies the surface kind of each face for
	// detailed labels.
	Oracle geom.Oracle
}

// Fill colors by face role.
const (
	ColorPlain  = "white"
	ColorEdge   = "gold"
	ColorVertex = "orange"
	ColorHole   = "lightblue"
	ColorEnding = "lightcyan"
)

var arcStyles = map[aag.DihedralKind]string{
	aag.DihedralConvex:        `color=black`,
	aag.DihedralConcave:       `color=firebrick, style=dashed`,
	aag.DihedralSmooth:        `color=grey50, style=dotted`,
	aag.DihedralSmoothConvex:  `color=black, style=dotted`,
	aag.DihedralSmoothConcave: `color=firebrick, style=dotted`,
	aag.DihedralUndefined:     `color=grey80`,
}

// ToDOT converts the current view of g to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Faces are filled by their attributes: drill hole faces in light blue
// (caps in light cyan), vertex blends in orange, edge blends in gold.
// Arcs are styled by dihedral kind; concave arcs are dashed and smooth
// arcs dotted.
func ToDOT(g *aag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		label := fmtLabel(g, id, opts)
		fmt.Fprintf(&buf, "  %d [label=%q, fillcolor=%s];\n", id, label, fillColor(g.Attrs(), id))
	}

	buf.WriteString("\n")
	for _, arc := range g.Arcs() {
		fmt.Fprintf(&buf, "  %d -- %d [%s];\n", arc.A, arc.B, arcStyles[g.DihedralKind(arc.A, arc.B)])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fillColor(attrs *aag.AttributeStore, id aag.NodeID) string {
	if dh, ok := aag.AttrOf[*aag.DrillHole](attrs, id); ok {
		if dh.Ending {
			return ColorEnding
		}
		return ColorHole
	}
	if bc, ok := aag.AttrOf[*aag.BlendCandidate](attrs, id); ok {
		if bc.Type == aag.BlendVertex {
			return ColorVertex
		}
		return ColorEdge
	}
	return ColorPlain
}

func fmtLabel(g *aag.Graph, id aag.NodeID, opts Options) string {
	label := strconv.Itoa(int(id))
	if !opts.Detailed {
		return label
	}

	var parts []string
	if opts.Oracle != nil {
		parts = append(parts, string(geom.Classify(opts.Oracle, id)))
	}
	attrs := g.Attrs()
	if bc, ok := aag.AttrOf[*aag.BlendCandidate](attrs, id); ok {
		parts = append(parts, fmt.Sprintf("%s blend r=%g", bc.Type, bc.Radius()))
	}
	if dh, ok := aag.AttrOf[*aag.DrillHole](attrs, id); ok {
		parts = append(parts, fmt.Sprintf("hole %d r=%g", dh.FeatureID, dh.Radius))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
