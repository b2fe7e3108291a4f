// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline turns a diagram registry into output artifacts in three stages:
//
//  1. Compile: optionally prune, synthesize placeholders, and compile the DOT
//     document and interaction stylesheet (see package render)
//  2. Layout: run the layout engine and embed the stylesheet in the SVG
//  3. Convert: derive PDF and PNG output from the SVG
//
// Stage 1 always runs; it is cheap and its output is the cache key. Stages 2
// and 3 are skipped when every requested artifact is already cached, and
// concurrent identical layouts share one engine call.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, reg, pipeline.Options{
//	    Formats: []string{"svg", "css"},
//	    Layout:  "dot",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodemap/pkg/cache"
	"github.com/matzehuels/nodemap/pkg/errors"
	"github.com/matzehuels/nodemap/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLayout is the Graphviz layout algorithm.
	DefaultLayout = render.DefaultLayout

	// DefaultScale is the PNG resolution factor (2x for high-DPI displays).
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
	FormatCSS = "css"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatCSS, FormatPDF, FormatPNG}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG: "image/svg+xml",
	FormatDOT: "text/vnd.graphviz",
	FormatCSS: "text/css",
	FormatPDF: "application/pdf",
	FormatPNG: "image/png",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compile options
	Prune bool `json:"prune,omitempty"` // Drop nodes without edges

	// Layout options
	Layout           string `json:"layout,omitempty"`
	NormalizeViewBox bool   `json:"normalize_viewbox,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG only

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document holds the compiled DOT and CSS. Its SVG is nil when the
	// layout stage was skipped.
	Document *render.Document

	// DocumentHash is the content hash of the compiled document.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks cache usage.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	Pruned      int
	CompileTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for a pipeline run.
type CacheInfo struct {
	Hits      []string // Formats served from cache
	RenderHit bool     // Whether all cacheable artifacts came from cache
	Shared    bool     // Whether the layout was shared with a concurrent run
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
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

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// ValidateAndSetDefaults applies defaults and validates the options.
// Duplicate formats are removed, keeping the first occurrence.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := render.ValidateLayout(o.Layout); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	o.Formats = dedupe(o.Formats)
	return nil
}

// NeedsLayout reports whether any requested format requires the engine.
func (o *Options) NeedsLayout() bool {
	return slices.ContainsFunc(o.Formats, needsLayout)
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:           format,
		Layout:           o.Layout,
		NormalizeViewBox: o.NormalizeViewBox,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func needsLayout(format string) bool {
	return format == FormatSVG || format == FormatPDF || format == FormatPNG
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
