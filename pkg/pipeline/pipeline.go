// Package pipeline provides the recognition pipeline for facetower.
//
// This package implements the complete load → recognize → render pipeline
// used by the CLI. By centralizing this logic, every entry point gets the
// same pass order, defaults and caching behavior.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a model fixture and build its adjacency graph and oracle
//  2. Recognize: Find drill holes, then blends over the remaining faces,
//     then group the blends into chains
//  3. Render: Produce the requested artifacts (JSON report, DOT, SVG)
//
// The recognition stage is cached under the model's content hash and the
// options that influence it. Rendered artifacts are cached per format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Model:   "part.json",
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"errors"
	"io"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetower/pkg/aag"
	"github.com/matzehuels/facetower/pkg/cache"
	ferrors "github.com/matzehuels/facetower/pkg/errors"
	"github.com/matzehuels/facetower/pkg/geom"
	fio "github.com/matzehuels/facetower/pkg/io"
	"github.com/matzehuels/facetower/pkg/recognize"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config Files
// =============================================================================

const (
	// DefaultMaxBlendRadius is the largest radius accepted as a blend.
	DefaultMaxBlendRadius = 10.0

	// DefaultMaxHoleRadius is the largest radius accepted as a drill hole.
	DefaultMaxHoleRadius = 25.0

	// DefaultMinBlendNeighbors matches the vertex-blend rule's default.
	DefaultMinBlendNeighbors = recognize.DefaultMinBlendNeighbors

	// DefaultTolerancePct matches the chain grouper's default.
	DefaultTolerancePct = recognize.DefaultTolerancePct
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the recognition pipeline.
// The struct can be loaded from a TOML config file with [Options.LoadFile].
type Options struct {
	// Load options
	Model string `json:"model" toml:"model"`
	Name  string `json:"name,omitempty" toml:"name,omitempty"` // Overrides the fixture's model name

	// Drill hole options
	SkipHoles     bool    `json:"skip_holes,omitempty" toml:"skip_holes"`
	MaxHoleRadius float64 `json:"max_hole_radius,omitempty" toml:"max_hole_radius"`
	AllowCones    bool    `json:"allow_cones,omitempty" toml:"allow_cones"`

	// Blend options
	SkipBlends        bool    `json:"skip_blends,omitempty" toml:"skip_blends"`
	MaxBlendRadius    float64 `json:"max_blend_radius,omitempty" toml:"max_blend_radius"`
	Blocking          bool    `json:"blocking,omitempty" toml:"blocking"`
	MinBlendNeighbors int     `json:"min_blend_neighbors,omitempty" toml:"min_blend_neighbors"`
	Seeds             []int   `json:"seeds,omitempty" toml:"seeds"` // Empty means every face

	// Grouping options
	TolerancePct float64 `json:"tolerance_pct,omitempty" toml:"tolerance_pct"`

	// Render options
	Formats  []string `json:"formats,omitempty" toml:"formats"`
	Detailed bool     `json:"detailed,omitempty" toml:"detailed"`

	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the loaded fixture.
	Model *fio.Model

	// ModelHash is the content hash of the fixture.
	ModelHash string

	// Graph is the attributed graph. It is nil when every requested output
	// came from the cache.
	Graph *aag.Graph

	// Oracle serves the fixture's geometry. Nil together with Graph.
	Oracle *geom.Table

	// Report lists the recognized features.
	Report *fio.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FaceCount     int
	ArcCount      int
	HoleCount     int
	ChainCount    int
	LoadTime      time.Duration
	RecognizeTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRecognize(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the model path.
func (o *Options) ValidateForLoad() error {
	if o.Model == "" {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "model is required")
	}
	if err := ferrors.ValidatePath(o.Model); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRecognizeDefaults sets default values for the recognition passes.
func (o *Options) SetRecognizeDefaults() {
	if o.MaxHoleRadius == 0 {
		o.MaxHoleRadius = DefaultMaxHoleRadius
	}
	if o.MaxBlendRadius == 0 {
		o.MaxBlendRadius = DefaultMaxBlendRadius
	}
	if o.MinBlendNeighbors == 0 {
		o.MinBlendNeighbors = DefaultMinBlendNeighbors
	}
	if o.TolerancePct == 0 {
		o.TolerancePct = DefaultTolerancePct
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRecognize validates and sets defaults for the recognition passes.
func (o *Options) ValidateForRecognize() error {
	o.SetRecognizeDefaults()
	if err := ferrors.ValidateTolerance("max_hole_radius", o.MaxHoleRadius); err != nil {
		return err
	}
	if err := ferrors.ValidateTolerance("max_blend_radius", o.MaxBlendRadius); err != nil {
		return err
	}
	if o.MinBlendNeighbors < 1 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "min_blend_neighbors must be at least 1, got %d", o.MinBlendNeighbors)
	}
	for _, id := range o.Seeds {
		if err := ferrors.ValidateNodeID(id); err != nil {
			return err
		}
	}
	return ferrors.ValidatePercent("tolerance_pct", o.TolerancePct)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LoadFile decodes a TOML config file into o. Keys absent from the file keep
// their current values, so flags applied afterwards override the file.
func (o *Options) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, o)
	if errors.Is(err, fs.ErrNotExist) {
		return ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	o.validated = false
	return nil
}

// NeedsGraph reports whether any requested format is drawn from the graph
// rather than from the report alone.
func (o *Options) NeedsGraph() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool { return f != FormatJSON })
}

// DrillOptions returns the options of the drill hole pass.
func (o *Options) DrillOptions() recognize.DrillOptions {
	return recognize.DrillOptions{
		MaxRadius:  o.MaxHoleRadius,
		AllowCones: o.AllowCones,
		Logger:     o.Logger,
	}
}

// BlendOptions returns the options of the blend passes.
func (o *Options) BlendOptions() recognize.BlendOptions {
	seeds := make([]aag.NodeID, len(o.Seeds))
	for i, id := range o.Seeds {
		seeds[i] = aag.NodeID(id)
	}
	return recognize.BlendOptions{
		MaxRadius:         o.MaxBlendRadius,
		Seeds:             seeds,
		Blocking:          o.Blocking,
		MinBlendNeighbors: o.MinBlendNeighbors,
		Logger:            o.Logger,
	}
}

// Grouper returns the chain grouper.
func (o *Options) Grouper() recognize.Grouper {
	g := recognize.NewGrouper(o.Logger)
	g.TolerancePct = o.TolerancePct
	return g
}

// ReportKeyOpts returns cache key options for the recognition stage.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		MaxBlendRadius:    o.MaxBlendRadius,
		Blocking:          o.Blocking,
		MinBlendNeighbors: o.MinBlendNeighbors,
		Seeds:             o.Seeds,
		MaxHoleRadius:     o.MaxHoleRadius,
		AllowCones:        o.AllowCones,
		TolerancePct:      o.TolerancePct,
		SkipHoles:         o.SkipHoles,
		SkipBlends:        o.SkipBlends,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
