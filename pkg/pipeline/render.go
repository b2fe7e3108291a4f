package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/nodemap/pkg/render"
)

// converters derive an output format from the interactive SVG. Tests swap
// them out so that the pipeline can run without rsvg-convert.
var converters = map[string]func(ctx context.Context, svg []byte, opts Options) ([]byte, error){
	FormatSVG: func(_ context.Context, svg []byte, _ Options) ([]byte, error) {
		return svg, nil
	},
	FormatPDF: func(ctx context.Context, svg []byte, _ Options) ([]byte, error) {
		return render.ToPDF(ctx, svg)
	},
	FormatPNG: func(ctx context.Context, svg []byte, opts Options) ([]byte, error) {
		return render.ToPNG(ctx, svg, opts.Scale)
	},
}

func convert(ctx context.Context, svg []byte, format string, opts Options) ([]byte, error) {
	fn, ok := converters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return fn(ctx, svg, opts)
}
