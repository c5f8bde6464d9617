package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/cache"
	fio "github.com/matzehuels/facetower/pkg/io"
	"github.com/matzehuels/facetower/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeReport   = "report"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → recognize → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	m, hash, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Model = m
	result.ModelHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.FaceCount = len(m.Faces)
	result.Stats.ArcCount = len(m.Arcs)

	r.Logger.Info("loaded model",
		"name", m.Name,
		"faces", len(m.Faces),
		"arcs", len(m.Arcs),
		"duration", result.Stats.LoadTime)

	// Stage 2: Recognize
	recognizeStart := time.Now()
	reportKey := r.Keyer.ReportKey(hash, opts.ReportKeyOpts())
	report, rec, reportHit, err := r.RecognizeWithCacheInfo(ctx, m, reportKey, opts)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	result.Report = report
	result.Stats.RecognizeTime = time.Since(recognizeStart)
	result.Stats.HoleCount = len(report.Holes)
	result.Stats.ChainCount = len(report.Chains)
	result.CacheInfo.ReportHit = reportHit

	r.Logger.Info("recognized features",
		"holes", len(report.Holes),
		"chains", len(report.Chains),
		"cached", reportHit,
		"duration", result.Stats.RecognizeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, rec, renderHit, err := r.RenderWithCacheInfo(ctx, m, report, rec, reportKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	if rec != nil {
		result.Graph = rec.Graph
		result.Oracle = rec.Oracle
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RecognizeWithCacheInfo returns the feature report of m, from the cache when
// possible. The recognition is returned only when it was computed.
func (r *Runner) RecognizeWithCacheInfo(ctx context.Context, m *fio.Model, reportKey string, opts Options) (*fio.Report, *Recognition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRecognize(); err != nil {
		return nil, nil, false, err
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, reportKey); err == nil && hit {
			report, err := fio.ReadReport(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeReport)
				return report, nil, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", reportKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
	}

	rec, err := Recognize(ctx, m, opts)
	if err != nil {
		return nil, nil, false, err
	}
	report := rec.Report(m.Name)

	var buf bytes.Buffer
	if err := fio.WriteReport(&buf, report); err == nil {
		r.set(ctx, keyTypeReport, reportKey, buf.Bytes(), cache.TTLReport)
	}

	return report, rec, false, nil // Cache miss
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. When a graph format misses the cache and rec is nil, the recognition
// is recomputed; the recognition used is returned.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *fio.Model, report *fio.Report, rec *Recognition, reportKey string, opts Options) (map[string][]byte, *Recognition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, rec, false, err
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(reportKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, rec, true, nil // All artifacts from cache
		}
	}

	if rec == nil && opts.NeedsGraph() {
		var err error
		if rec, err = Recognize(ctx, m, opts); err != nil {
			return nil, nil, false, err
		}
	}

	rendered, err := Render(report, rec, opts)
	if err != nil {
		return nil, rec, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(reportKey, opts.ArtifactKeyOpts(format))
		r.set(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}

	return rendered, rec, false, nil // Cache miss
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
