// Package observability lets a binary observe the render pipeline without
// library packages importing a metrics backend.
//
// Libraries report events through [Pipeline], [Cache] and [HTTP]. Until main
// calls [Register] those return no-op implementations. The Prometheus
// implementation behind "nodemap serve" lives in internal/server:
//
//	observability.Register(observability.Hooks{
//	    Pipeline: metrics,
//	    Cache:    metrics,
//	    HTTP:     metrics,
//	})
//
// A pipeline run reports, in order, OnRenderStart, OnCompileComplete, cache
// hits and misses per laid-out format, OnLayoutStart/OnLayoutComplete when
// Graphviz runs, one OnCacheSet per stored artifact and OnRenderComplete.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from pipeline.Runner.
type PipelineHooks interface {
	OnCompileComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration)
	OnLayoutStart(ctx context.Context, layout string, nodeCount int)
	OnLayoutComplete(ctx context.Context, layout string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache events keyed by output format.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, size int)
}

// HTTPHooks receives one OnRequest and one OnResponse per API request.
// Route is the matched chi pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type noop struct{}

func (noop) OnCompileComplete(context.Context, int, int, time.Duration)       {}
func (noop) OnLayoutStart(context.Context, string, int)                       {}
func (noop) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (noop) OnRenderStart(context.Context, []string)                          {}
func (noop) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (noop) OnCacheHit(context.Context, string)                               {}
func (noop) OnCacheMiss(context.Context, string)                              {}
func (noop) OnCacheSet(context.Context, string, int)                          {}
func (noop) OnRequest(context.Context, string, string)                        {}
func (noop) OnResponse(context.Context, string, string, int, time.Duration)   {}

// Hooks is the set of registered hooks. A nil field keeps the hook that is
// currently registered.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var defaults = Hooks{Pipeline: noop{}, Cache: noop{}, HTTP: noop{}}

var current atomic.Pointer[Hooks]

func init() { Reset() }

// Register installs h. Call it at startup, before the first render.
func Register(h Hooks) {
	next := *current.Load()
	if h.Pipeline != nil {
		next.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
}

// Reset restores the no-op hooks.
func Reset() {
	h := defaults
	current.Store(&h)
}

func Pipeline() PipelineHooks { return current.Load().Pipeline }
func Cache() CacheHooks       { return current.Load().Cache }
func HTTP() HTTPHooks         { return current.Load().HTTP }
