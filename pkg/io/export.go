package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/geom"
	"github.com/matzehuels/facetower/pkg/recognize"
)

// Report is the recognized feature set of one model.
type Report struct {
	Model   string        `json:"model"`
	RunID   string        `json:"run_id,omitempty"`
	Holes   []HoleRecord  `json:"holes"`
	Chains  []ChainRecord `json:"chains"`
	Corners []int         `json:"corners,omitempty"`
	Faces   []FaceRecord  `json:"faces"`
}

// HoleRecord is an accepted drill hole.
type HoleRecord struct {
	ID      int       `json:"id"`
	Faces   []int     `json:"faces"`
	Endings []int     `json:"endings"`
	Axis    geom.Axis `json:"axis"`
	Radius  float64   `json:"radius"`
	Depth   float64   `json:"depth"`
}

// ChainRecord is a blend chain.
type ChainRecord struct {
	Faces  []int   `json:"faces"`
	Radius float64 `json:"radius"`
	Length float64 `json:"length"`
}

// FaceRecord lists the attributes recorded on one face. Faces without
// attributes are omitted from a report.
type FaceRecord struct {
	ID      int            `json:"id"`
	Blend   string         `json:"blend,omitempty"`
	Radii   []float64      `json:"radii,omitempty"`
	Roles   map[int]string `json:"roles,omitempty"`
	Feature string         `json:"feature,omitempty"`
	// HoleID is the drill hole owning the face, zero for none.
	HoleID int  `json:"hole_id,omitempty"`
	Ending bool `json:"ending,omitempty"`
}

// NewReport collects the recognized features of g. Either result may be nil.
func NewReport(name string, g *aag.Graph, holes *recognize.DrillResult, chains *recognize.GroupResult) *Report {
	r := &Report{Model: name, Holes: []HoleRecord{}, Chains: []ChainRecord{}, Faces: []FaceRecord{}}
	if holes != nil {
		for _, h := range holes.Holes {
			r.Holes = append(r.Holes, HoleRecord{
				ID:      h.ID,
				Faces:   ints(h.Faces),
				Endings: ints(h.Endings),
				Axis:    h.Axis,
				Radius:  h.Radius,
				Depth:   h.Depth,
			})
		}
	}
	if chains != nil {
		for _, c := range chains.Chains {
			r.Chains = append(r.Chains, ChainRecord{Faces: ints(c.Faces), Radius: c.Radius, Length: c.Length})
		}
		if chains.Corners.Len() > 0 {
			r.Corners = ints(chains.Corners)
		}
	}

	attrs := g.Attrs()
	for _, id := range g.MasterNodes() {
		rec := FaceRecord{ID: int(id)}
		if bc, ok := aag.AttrOf[*aag.BlendCandidate](attrs, id); ok {
			rec.Blend = bc.Type.String()
			rec.Radii = bc.Radii
			rec.Roles = make(map[int]string, len(bc.Roles))
			for n, role := range bc.Roles {
				rec.Roles[int(n)] = role.String()
			}
		}
		if f, ok := aag.AttrOf[*aag.Feature](attrs, id); ok {
			rec.Feature = f.Name
		}
		if dh, ok := aag.AttrOf[*aag.DrillHole](attrs, id); ok {
			rec.HoleID = dh.FeatureID
			rec.Ending = dh.Ending
		}
		if rec.Blend != "" || rec.Feature != "" || rec.HoleID != 0 {
			r.Faces = append(r.Faces, rec)
		}
	}
	return r
}

// Face returns the record for id.
func (r *Report) Face(id int) (FaceRecord, bool) {
	for _, f := range r.Faces {
		if f.ID == id {
			return f, true
		}
	}
	return FaceRecord{}, false
}

func ints(s aag.NodeSet) []int {
	out := make([]int, 0, s.Len())
	for _, id := range s.Sorted() {
		out = append(out, int(id))
	}
	return out
}

// WriteReport encodes r as indented JSON.
func WriteReport(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadReport decodes a report written by [WriteReport].
func ReadReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &r, nil
}

// ExportReport writes r to a JSON file at path.
func ExportReport(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReport(f, r)
}
