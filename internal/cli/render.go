package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodemap/pkg/pipeline"
	"github.com/matzehuels/nodemap/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats: svg, dot, css, pdf, png
	prune     bool     // drop nodes without edges
	layout    string   // Graphviz layout algorithm
	normalize bool     // rewrite the svg tag to a viewBox-only form
	scale     float64  // PNG resolution factor
	noCache   bool     // disable the artifact cache
	refresh   bool     // re-render even when cached
	watch     bool     // re-render whenever the input changes
}

// renderCommand creates the render command for compiling definitions.
//
// Default settings:
//   - format: svg
//   - layout: dot
//   - scale: 2 (PNG only)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		layout: pipeline.DefaultLayout,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram definition (.toml, .yaml, .json)",
		Long: `Render compiles a diagram definition into a Graphviz document and an
interaction stylesheet, lays it out, and writes the requested formats.

Clicking a node in the SVG output highlights its outgoing edges in red and its
incoming edges in green.`,
		Example: `  nodemap render services.toml
  nodemap render services.yaml -f svg,dot,css -o build/services
  nodemap render services.toml --layout neato --prune --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == "-" && len(opts.formats) > 1 {
				return fmt.Errorf("--output - writes a single format, got %d", len(opts.formats))
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, css, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.prune, "prune", false, "drop nodes that are not connected to any edge")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "layout algorithm: "+strings.Join(render.Layouts, ", "))
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "normalize the SVG viewBox")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the input file changes")

	return cmd
}

// runRender renders input once and, with --watch, again on every change.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx = withLogger(ctx, c.Logger)
	err = renderOnce(ctx, runner, input, opts)
	if !opts.watch {
		return err
	}
	if err != nil {
		printError("%s", err)
	}

	printInfo("Watching %s for changes (Ctrl-C to stop)", StyleHighlight.Render(input))
	return watchFile(ctx, input, defaultDebounce, func() {
		if err := renderOnce(ctx, runner, input, opts); err != nil {
			printError("%s", err)
		}
	})
}

// renderOnce runs the pipeline on input and writes every artifact.
func renderOnce(ctx context.Context, runner *pipeline.Runner, input string, opts *renderOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	stop := func() {}
	if opts.output != "-" {
		stop = startSpinner(ctx, "Rendering "+filepath.Base(input))
	}
	result, err := runner.ExecuteFile(ctx, input, pipeline.Options{
		Prune:            opts.prune,
		Layout:           opts.layout,
		NormalizeViewBox: opts.normalize,
		Formats:          opts.formats,
		Scale:            opts.scale,
		Refresh:          opts.refresh,
	})
	stop()
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	if opts.output != "-" {
		prog.done("rendered", "file", input, "formats", strings.Join(opts.formats, ","))
		for _, format := range opts.formats {
			printFile(paths[format])
		}
		printStats(result.Stats, result.CacheInfo.RenderHit)
	}
	return nil
}

// outputPaths maps each format to its destination. A single format with an
// explicit output writes exactly there; otherwise each format is written to
// base.format.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .dot, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifact writes data to path, creating parent directories. A path of
// "-" writes to stdout.
func writeArtifact(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
