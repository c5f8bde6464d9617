// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about recognition passes, geometry oracle queries and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the recognition packages
// never import a metrics backend. The promhooks subpackage provides a
// Prometheus implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetOracleHooks(&myOracleHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnPassStart(ctx, "edge-blend", len(seeds))
//	// ... run the pass ...
//	observability.Pipeline().OnPassComplete(ctx, "edge-blend", recognized, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the recognition pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, faceCount int, duration time.Duration, err error)

	// Recognition pass events. pass is a stable name such as "edge-blend".
	OnPassStart(ctx context.Context, pass string, seedCount int)
	OnPassComplete(ctx context.Context, pass string, recognized int, duration time.Duration, err error)

	// Grouping events
	OnGroupComplete(ctx context.Context, chainCount int, duration time.Duration)
}

// =============================================================================
// Oracle Hooks
// =============================================================================

// OracleHooks receives events from geometry oracle queries.
type OracleHooks interface {
	// OnQuery records one oracle call. op names the query ("cylinder",
	// "radii", "dihedral", ...). A negative answer is not an error.
	OnQuery(ctx context.Context, op string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnPassStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnPassComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnGroupComplete(context.Context, int, time.Duration)               {}

// NoopOracleHooks is a no-op implementation of OracleHooks.
type NoopOracleHooks struct{}

func (NoopOracleHooks) OnQuery(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	oracleHooks   OracleHooks   = NoopOracleHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetOracleHooks registers custom oracle hooks.
func SetOracleHooks(h OracleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		oracleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Oracle returns the registered oracle hooks.
func Oracle() OracleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return oracleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	oracleHooks = NoopOracleHooks{}
	cacheHooks = NoopCacheHooks{}
}
