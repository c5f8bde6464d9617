package io

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/recognize"
)

func recognizedReport(t *testing.T) *Report {
	t.Helper()
	m, err := Import("testdata/through_hole.json")
	if err != nil {
		t.Fatal(err)
	}
	g, o, err := m.Build()
	if err != nil {
		t.Fatal(err)
	}
	holes, err := recognize.RecognizeDrillHoles(context.Background(), g, o, recognize.DrillOptions{})
	if err != nil {
		t.Fatal(err)
	}
	g.Attrs().Set(5, &aag.BlendCandidate{
		Type:  aag.BlendEdge,
		Radii: []float64{1},
		Roles: map[aag.NodeID]aag.EdgeRole{1: aag.RoleTerminating, 4: aag.RoleCross},
	})
	chains := recognize.NewGrouper(nil).Group(g, aag.NewNodeSet(5))
	return NewReport(m.Name, g, holes, &chains)
}

func TestNewReport(t *testing.T) {
	r := recognizedReport(t)
	if r.Model != "through-hole" {
		t.Errorf("Model = %q", r.Model)
	}
	if len(r.Holes) != 1 {
		t.Fatalf("Holes = %+v", r.Holes)
	}
	if h := r.Holes[0]; !reflect.DeepEqual(h.Faces, []int{2, 3}) || !reflect.DeepEqual(h.Endings, []int{1, 4}) || h.Radius != 2 {
		t.Errorf("hole = %+v", h)
	}
	if len(r.Chains) != 1 || !reflect.DeepEqual(r.Chains[0].Faces, []int{5}) {
		t.Errorf("Chains = %+v", r.Chains)
	}

	if len(r.Faces) != 3 {
		t.Fatalf("Faces = %+v, want records for 2, 3 and 5", r.Faces)
	}
	bore, ok := r.Face(2)
	if !ok || bore.HoleID != 1 || bore.Feature != "drill-hole" || bore.Ending {
		t.Errorf("face 2 = %+v", bore)
	}
	blend, _ := r.Face(5)
	if blend.Blend != "edge" || blend.Roles[4] != "cross" || blend.Roles[1] != "terminating" {
		t.Errorf("face 5 = %+v", blend)
	}
	if _, ok := r.Face(1); ok {
		t.Error("planar ending has a record")
	}
}

func TestReportRoundTrip(t *testing.T) {
	want := recognizedReport(t)
	want.RunID = "run-1"

	var buf bytes.Buffer
	if err := WriteReport(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadReport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip differs:\n got %+v\nwant %+v", got, want)
	}

	path := filepath.Join(t.TempDir(), "features.json")
	if err := ExportReport(want, path); err != nil {
		t.Fatal(err)
	}
}

func TestNewReportEmpty(t *testing.T) {
	g, err := aag.New([]aag.NodeID{1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := NewReport("empty", g, nil, nil)
	if r.Holes == nil || r.Chains == nil || r.Faces == nil {
		t.Error("empty report has nil slices")
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"holes": []`)) {
		t.Errorf("output = %s", buf.String())
	}
}
