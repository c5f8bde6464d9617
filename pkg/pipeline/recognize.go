package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/cache"
	"github.com/matzehuels/facetower/pkg/geom"
	fio "github.com/matzehuels/facetower/pkg/io"
	"github.com/matzehuels/facetower/pkg/observability"
	"github.com/matzehuels/facetower/pkg/recognize"
)

// Load reads the model fixture named by opts.Model and returns it with its
// content hash.
func Load(ctx context.Context, opts Options) (*fio.Model, string, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Model)

	m, err := fio.Import(opts.Model)
	faces := 0
	var hash string
	if err == nil {
		if opts.Name != "" {
			m.Name = opts.Name
		}
		faces = len(m.Faces)
		var data []byte
		if data, err = json.Marshal(m); err == nil {
			hash = cache.Hash(data)
		}
	}

	observability.Pipeline().OnLoadComplete(ctx, opts.Model, faces, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return m, hash, nil
}

// Recognition holds the attributed graph and the pass results of one run.
type Recognition struct {
	Graph  *aag.Graph
	Oracle *geom.Table
	Holes  *recognize.DrillResult
	Blends *recognize.BlendResult
	Groups *recognize.GroupResult
}

// Recognize builds the graph of m and runs the passes in order: drill holes
// over the whole model, then blends and chain grouping over the faces no hole
// claimed. Oracle queries are reported to the observability hooks.
func Recognize(ctx context.Context, m *fio.Model, opts Options) (*Recognition, error) {
	if err := opts.ValidateForRecognize(); err != nil {
		return nil, err
	}
	g, table, err := m.Build()
	if err != nil {
		return nil, err
	}
	rec := &Recognition{Graph: g, Oracle: table}
	o := geom.Instrument(ctx, table)

	if !opts.SkipHoles {
		if rec.Holes, err = recognize.RecognizeDrillHoles(ctx, g, o, opts.DrillOptions()); err != nil {
			return nil, err
		}
	}
	if opts.SkipBlends {
		return rec, nil
	}

	claimed := aag.NewNodeSet()
	if rec.Holes != nil {
		claimed = rec.Holes.Faces()
	}
	scope, err := g.PushSubgraphExcluding(claimed)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	if rec.Blends, err = recognize.RecognizeBlends(ctx, g, o, opts.BlendOptions()); err != nil {
		return nil, err
	}

	start := time.Now()
	groups := opts.Grouper().Group(g, rec.Blends.Candidates)
	rec.Groups = &groups
	observability.Pipeline().OnGroupComplete(ctx, len(groups.Chains), time.Since(start))
	return rec, nil
}

// Report collects the recognized features under a fresh run id.
func (r *Recognition) Report(name string) *fio.Report {
	report := fio.NewReport(name, r.Graph, r.Holes, r.Groups)
	report.RunID = uuid.NewString()
	return report
}
