// Package promhooks implements the observability hook interfaces on top of
// Prometheus collectors.
//
// A single [Hooks] value serves pipeline, oracle and cache events. Create it
// against a registry and install it from main:
//
//	reg := prometheus.NewRegistry()
//	promhooks.New(reg).Install()
//
// The collectors live in the "facetower" namespace.
package promhooks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/facetower/pkg/observability"
)

const namespace = "facetower"

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Hooks records observability events as Prometheus metrics.
type Hooks struct {
	// Loads counts model loads. Labels: status (ok, error)
	Loads *prometheus.CounterVec
	// LoadedFaces observes the face count of each loaded model.
	LoadedFaces prometheus.Histogram

	// Passes counts recognition passes. Labels: pass, status
	Passes *prometheus.CounterVec
	// PassDuration observes pass wall time. Labels: pass
	PassDuration *prometheus.HistogramVec
	// Recognized counts faces tagged by each pass. Labels: pass
	Recognized *prometheus.CounterVec
	// Chains counts blend chains produced by grouping.
	Chains prometheus.Counter

	// OracleQueries counts geometry queries. Labels: op, status
	OracleQueries *prometheus.CounterVec
	// OracleDuration observes geometry query latency. Labels: op
	OracleDuration *prometheus.HistogramVec

	// CacheRequests counts cache lookups. Labels: key_type, result (hit, miss)
	CacheRequests *prometheus.CounterVec
	// CacheWrittenBytes counts bytes written to the cache. Labels: key_type
	CacheWrittenBytes *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. It panics if reg
// already holds collectors with the same names.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "loads_total",
			Help:      "Model loads by status",
		}, []string{"status"}),
		LoadedFaces: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "model_faces",
			Help:      "Face count of loaded models",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 7),
		}),
		Passes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "passes_total",
			Help:      "Recognition passes by pass and status",
		}, []string{"pass", "status"}),
		PassDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "pass_duration_seconds",
			Help:      "Recognition pass duration in seconds",
			Buckets:   durationBuckets,
		}, []string{"pass"}),
		Recognized: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "recognized_faces_total",
			Help:      "Faces tagged by each recognition pass",
		}, []string{"pass"}),
		Chains: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "chains_total",
			Help:      "Blend chains produced by grouping",
		}),
		OracleQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "queries_total",
			Help:      "Geometry oracle queries by operation and status",
		}, []string{"op", "status"}),
		OracleDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "query_duration_seconds",
			Help:      "Geometry oracle query latency in seconds",
			Buckets:   durationBuckets,
		}, []string{"op"}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
		CacheWrittenBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
	}
}

// Install registers h as the global pipeline, oracle and cache hooks.
func (h *Hooks) Install() {
	observability.SetPipelineHooks(h)
	observability.SetOracleHooks(h)
	observability.SetCacheHooks(h)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) OnLoadStart(context.Context, string) {}

func (h *Hooks) OnLoadComplete(_ context.Context, _ string, faceCount int, _ time.Duration, err error) {
	h.Loads.WithLabelValues(status(err)).Inc()
	if err == nil {
		h.LoadedFaces.Observe(float64(faceCount))
	}
}

func (h *Hooks) OnPassStart(context.Context, string, int) {}

func (h *Hooks) OnPassComplete(_ context.Context, pass string, recognized int, d time.Duration, err error) {
	h.Passes.WithLabelValues(pass, status(err)).Inc()
	h.PassDuration.WithLabelValues(pass).Observe(d.Seconds())
	h.Recognized.WithLabelValues(pass).Add(float64(recognized))
}

func (h *Hooks) OnGroupComplete(_ context.Context, chainCount int, _ time.Duration) {
	h.Chains.Add(float64(chainCount))
}

func (h *Hooks) OnQuery(_ context.Context, op string, d time.Duration, err error) {
	h.OracleQueries.WithLabelValues(op, status(err)).Inc()
	h.OracleDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.OracleHooks   = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
)
