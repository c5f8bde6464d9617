package pipeline

import (
	"bytes"
	"fmt"

	fio "github.com/matzehuels/facetower/pkg/io"
	"github.com/matzehuels/facetower/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. rec may be nil
// when only the JSON report is requested.
func Render(report *fio.Report, rec *Recognition, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		if format != FormatJSON && rec == nil {
			return nil, fmt.Errorf("render %s: attributed graph is required", format)
		}
		if format != FormatJSON && dot == "" {
			dot = nodelink.ToDOT(rec.Graph, nodelink.Options{Detailed: opts.Detailed, Oracle: rec.Oracle})
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = fio.WriteReport(&buf, report)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
