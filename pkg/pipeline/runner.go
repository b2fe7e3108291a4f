package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/nodemap/pkg/cache"
	"github.com/matzehuels/nodemap/pkg/diagram"
	"github.com/matzehuels/nodemap/pkg/observability"
	"github.com/matzehuels/nodemap/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner holds no per-diagram state. Multiple goroutines can safely use
// the same Runner with different registries; each registry must still be
// owned by one goroutine.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Engine overrides the layout engine. When nil, a [render.Graphviz] is
	// built from each run's options.
	Engine render.Engine

	flight singleflight.Group
}

// NewRunner creates a runner with the given cache, keyer and engine.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, eng render.Engine, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Engine: eng,
	}
}

// Execute runs the compile → layout → convert pipeline with caching.
//
// The registry is mutated: placeholders are synthesized and, with
// opts.Prune, unconnected nodes are removed first.
func (r *Runner) Execute(ctx context.Context, reg *diagram.Registry, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	result, err := r.execute(ctx, reg, opts, logger)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, reg *diagram.Registry, opts Options, logger *log.Logger) (*Result, error) {
	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Compile
	compileStart := time.Now()
	if opts.Prune {
		result.Stats.Pruned = reg.Prune()
	}
	doc := render.Prepare(reg)
	result.Document = doc
	result.DocumentHash = cache.DocumentHash(doc.DOT, doc.CSS)
	result.Stats.NodeCount = reg.NodeCount()
	result.Stats.EdgeCount = reg.EdgeCount()
	result.Stats.CompileTime = time.Since(compileStart)
	observability.Pipeline().OnCompileComplete(ctx, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.CompileTime)

	logger.Debug("compiled diagram",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"pruned", result.Stats.Pruned,
		"duration", result.Stats.CompileTime)

	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			result.Artifacts[format] = []byte(doc.DOT)
		case FormatCSS:
			result.Artifacts[format] = []byte(doc.CSS)
		}
	}
	if !opts.NeedsLayout() {
		return result, nil
	}

	// Try cache first (unless refresh requested)
	var missing []string
	for _, format := range opts.Formats {
		if !needsLayout(format) {
			continue
		}
		if data, ok := r.cached(ctx, result.DocumentHash, format, opts); ok {
			result.Artifacts[format] = data
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		result.CacheInfo.RenderHit = true
		logger.Info("served from cache", "formats", result.CacheInfo.Hits)
		return result, nil
	}

	// Stage 2: Layout. A cached SVG is enough for the conversions.
	if svg, ok := result.Artifacts[FormatSVG]; ok {
		doc.SVG = svg
	} else {
		layoutStart := time.Now()
		svg, shared, err := r.layout(ctx, result, opts, logger)
		if err != nil {
			return nil, err
		}
		doc.SVG = svg
		result.CacheInfo.Shared = shared
		result.Stats.LayoutTime = time.Since(layoutStart)
	}

	// Stage 3: Convert
	renderStart := time.Now()
	for _, format := range missing {
		data, err := convert(ctx, doc.SVG, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		r.store(ctx, result.DocumentHash, format, opts, data)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered diagram",
		"formats", missing,
		"layout", opts.Layout,
		"layout_time", result.Stats.LayoutTime,
		"render_time", result.Stats.RenderTime)

	return result, nil
}

// layout runs the engine once per document and engine options, sharing the
// SVG between concurrent callers.
func (r *Runner) layout(ctx context.Context, result *Result, opts Options, logger *log.Logger) ([]byte, bool, error) {
	doc := result.Document
	key := fmt.Sprintf("%s|%s|%t", result.DocumentHash, opts.Layout, opts.NormalizeViewBox)
	v, err, shared := r.flight.Do(key, func() (any, error) {
		start := time.Now()
		observability.Pipeline().OnLayoutStart(ctx, opts.Layout, result.Stats.NodeCount)
		laid := &render.Document{DOT: doc.DOT, CSS: doc.CSS}
		err := laid.Layout(ctx, r.engine(opts))
		observability.Pipeline().OnLayoutComplete(ctx, opts.Layout, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		logger.Debug("computed layout", "layout", opts.Layout, "bytes", len(laid.SVG), "duration", time.Since(start))
		return laid.SVG, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), shared, nil
}

func (r *Runner) cached(ctx context.Context, docHash, format string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.logger(opts).Warn("cache read failed", "format", format, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, format)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, format)
	return data, true
}

func (r *Runner) store(ctx context.Context, docHash, format string, opts Options, data []byte) {
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.logger(opts).Warn("cache write failed", "format", format, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, format, len(data))
}

func (r *Runner) engine(opts Options) render.Engine {
	if r.Engine != nil {
		return r.Engine
	}
	return render.Graphviz{Algorithm: opts.Layout, NormalizeViewBox: opts.NormalizeViewBox}
}

// logger returns the per-run logger, falling back to the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
