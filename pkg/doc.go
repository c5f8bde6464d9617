// Package pkg provides the core libraries for Facetower feature recognition.
//
// # Overview
//
// Facetower recognizes machining features on the attributed adjacency graph
// (AAG) of a solid model: every face is a node, every shared edge between
// two faces is an arc labelled with its dihedral angle. The pkg directory is
// organized into these areas:
//
//  1. [aag] - The graph, its attribute store and the subgraph view stack
//  2. [geom] - Canonical surface geometry and the oracle interface
//  3. [recognize] - Drill hole, blend and chain recognition passes
//  4. [io] - Model fixtures (JSON, TOML, YAML) and feature reports
//  5. [pipeline] - Orchestration (load → recognize → render) with caching
//
// # Architecture
//
// The typical data flow through Facetower:
//
//	Model fixture (JSON/TOML/YAML)
//	         ↓
//	    [io] package (decode, validate, build graph + oracle)
//	         ↓
//	    [recognize] package (drill holes, then blends on the remaining faces)
//	         ↓
//	    [io] report / [render/nodelink] DOT and SVG
//
// # Quick Start
//
// Load a fixture and recognize its features:
//
//	import (
//	    "context"
//	    fio "github.com/matzehuels/facetower/pkg/io"
//	    "github.com/matzehuels/facetower/pkg/recognize"
//	)
//
//	// 1. Build the graph and oracle
//	m, _ := fio.Import("bracket.json")
//	g, o, _ := m.Build()
//
//	// 2. Find drill holes
//	holes, _ := recognize.RecognizeDrillHoles(ctx, g, o, recognize.DrillOptions{MaxRadius: 25})
//
//	// 3. Find blends and group them into chains
//	blends, _ := recognize.RecognizeBlends(ctx, g, o, recognize.BlendOptions{MaxRadius: 10})
//	chains := recognize.NewGrouper(nil).Group(g, blends.Candidates)
//
// # Main Packages
//
// [aag/propagate] - Breadth-first neighbor propagation driven by a rule
// that accepts or rejects each visited face.
//
// [cache] - Result cache with file and Redis backends, keyed by model hash
// and recognition options.
//
// [observability] - Hook interfaces for pipeline passes, oracle queries and
// cache traffic. [observability/promhooks] exports them as Prometheus
// metrics.
//
// [errors] - Coded errors and input validation shared by every package.
//
// [aag]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/aag
// [aag/propagate]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/aag/propagate
// [geom]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/geom
// [recognize]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/recognize
// [io]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/observability
// [observability/promhooks]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/observability/promhooks
// [errors]: https://pkg.go.dev/github.com/matzehuels/facetower/pkg/errors
package pkg
