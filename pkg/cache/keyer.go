package cache

import "time"

// Entry lifetimes.
const (
	TTLReport   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys for pipeline results.
type Keyer interface {
	// ReportKey addresses the feature report of a model.
	ReportKey(modelHash string, opts ReportKeyOpts) string
	// ArtifactKey addresses a rendered diagram of a report.
	ArtifactKey(reportKey string, opts ArtifactKeyOpts) string
}

// ReportKeyOpts lists every option that changes a feature report.
type ReportKeyOpts struct {
	MaxBlendRadius    float64 `json:"max_blend_radius"`
	Blocking          bool    `json:"blocking"`
	MinBlendNeighbors int     `json:"min_blend_neighbors"`
	Seeds             []int   `json:"seeds,omitempty"`
	MaxHoleRadius     float64 `json:"max_hole_radius"`
	AllowCones        bool    `json:"allow_cones"`
	TolerancePct      float64 `json:"tolerance_pct"`
	SkipHoles         bool    `json:"skip_holes"`
	SkipBlends        bool    `json:"skip_blends"`
}

// ArtifactKeyOpts lists every option that changes a rendered diagram.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer produces "report:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ReportKey(modelHash string, opts ReportKeyOpts) string {
	return hashKey("report", modelHash, opts)
}

func (DefaultKeyer) ArtifactKey(reportKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportKey, opts)
}
