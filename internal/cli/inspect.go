package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/geom"
	fio "github.com/matzehuels/facetower/pkg/io"
)

var (
	surfaceOrder  = []geom.SurfaceKind{geom.SurfacePlane, geom.SurfaceCylinder, geom.SurfaceCone, geom.SurfaceTorus, geom.SurfaceOther}
	dihedralOrder = []aag.DihedralKind{
		aag.DihedralConvex, aag.DihedralConcave, aag.DihedralSmooth,
		aag.DihedralSmoothConvex, aag.DihedralSmoothConcave, aag.DihedralUndefined,
	}
)

// inspectCommand creates the inspect command, which summarizes the topology
// of a model fixture without running recognition.
func (c *CLI) inspectCommand() *cobra.Command {
	var listFaces bool

	cmd := &cobra.Command{
		Use:   "inspect <model>",
		Short: "Print face, arc and dihedral statistics of a model fixture",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeModelFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := fio.Import(args[0])
			if err != nil {
				return err
			}
			g, o, err := m.Build()
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("built graph", "faces", g.NodeCount(), "arcs", g.ArcCount())

			name := m.Name
			if name == "" {
				name = args[0]
			}
			printInspect(cmd.OutOrStdout(), name, g, o, listFaces)
			return nil
		},
	}

	cmd.Flags().BoolVar(&listFaces, "faces", false, "list every face with its surface and neighbors")
	return cmd
}

func printInspect(w io.Writer, name string, g *aag.Graph, o geom.Oracle, listFaces bool) {
	fmt.Fprintln(w, StyleTitle.Render(name))
	printKeyValue(w, "faces", fmt.Sprint(g.NodeCount()))
	printKeyValue(w, "arcs", fmt.Sprint(g.ArcCount()))
	printKeyValue(w, "components", fmt.Sprint(len(g.ConnectedComponents(aag.NewNodeSet(g.Nodes()...)))))

	surfaces := make(map[geom.SurfaceKind]int)
	for _, id := range g.Nodes() {
		surfaces[geom.Classify(o, id)]++
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Surfaces"))
	printHistogram(w, surfaceOrder, surfaces)

	dihedrals := make(map[aag.DihedralKind]int)
	for _, arc := range g.Arcs() {
		dihedrals[g.DihedralKind(arc.A, arc.B)]++
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Dihedrals"))
	printHistogram(w, dihedralOrder, dihedrals)

	if !listFaces {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Faces"))
	for _, id := range g.Nodes() {
		nbrs, _ := g.Neighbors(id)
		parts := make([]string, 0, nbrs.Len())
		for _, n := range nbrs.Sorted() {
			parts = append(parts, fmt.Sprintf("%d/%s", n, g.DihedralKind(id, n)))
		}
		printKeyValue(w, fmt.Sprintf("%d %s", id, geom.Classify(o, id)), strings.Join(parts, " "))
	}
}

// printHistogram prints one bar per key in order, skipping empty buckets.
func printHistogram[K comparable](w io.Writer, order []K, counts map[K]int) {
	largest := 0
	for _, n := range counts {
		largest = max(largest, n)
	}
	for _, k := range order {
		if counts[k] > 0 {
			printBar(w, fmt.Sprint(k), counts[k], largest)
		}
	}
}
