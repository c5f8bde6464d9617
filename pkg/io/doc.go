// Package io reads model fixtures and writes recognized feature reports.
//
// # Model Fixtures
//
// A fixture describes a solid as its face adjacency plus the precomputed
// geometry a kernel would otherwise answer: surface type and parameters per
// face, and the dihedral classification per arc. The same structure is
// accepted as JSON, TOML or YAML, selected by file extension:
//
//	{
//	  "name": "bracket",
//	  "faces": [
//	    {"id": 1, "surface": "plane", "plane": {"normal": {"z": 1}}},
//	    {"id": 2, "surface": "cylinder",
//	     "cylinder": {"axis": {"dir": {"z": 1}}, "radius": 2, "height": 10,
//	                  "max_angle": 6.283185307179586, "internal": true}}
//	  ],
//	  "arcs": [
//	    {"a": 1, "b": 2, "dihedral": "convex"}
//	  ]
//	}
//
// Face fields:
//   - id: positive integer, unique within the fixture
//   - surface: "plane", "cylinder", "cone", "torus" or "other"
//   - plane / cylinder / cone / torus: parameters of the matching surface
//   - radii: explicit radii, required for "other" faces that act as blends
//   - contours: inner boundary loops, used to validate drill hole entries
//   - degenerate: marks a face the kernel cannot evaluate
//
// Arc fields:
//   - a, b: the two face ids
//   - dihedral: "convex", "concave", "smooth", "smooth-convex",
//     "smooth-concave" or "undefined"
//   - angle, edges: optional angle in radians and shared edge ids
//
// Use [Import] to read a fixture from a path, or [Read] with an explicit
// [Format] for any io.Reader. Both reject unknown keys and validate ids,
// surface blocks and arcs, reporting INVALID_FORMAT on failure. A decoded
// [Model] implements [aag.Topology], and [Model.Build] turns it into a
// graph plus a table oracle ready for recognition:
//
//	m, err := io.Import("bracket.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, oracle, err := m.Build()
//
// # Feature Reports
//
// [NewReport] collects the drill holes, blend chains and per-face
// attributes of a recognized graph. [WriteReport] and [ReadReport] encode
// the report as JSON; the pipeline cache stores reports in this form.
//
// [aag.Topology]: github.com/matzehuels/facetower/pkg/aag.Topology
package io
