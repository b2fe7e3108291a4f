package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/nodemap/pkg/errors"
)

// RSVGConvert is the librsvg command used for PDF and PNG output.
var RSVGConvert = "rsvg-convert"

const rsvgHint = "install librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)"

// ToPDF converts an interactive SVG to PDF. The embedded stylesheet is kept,
// but PDF viewers cannot run the node links, so only the default styling
// shows.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG rasterizes an SVG at scale (2 doubles the resolution). A scale of
// zero or less means 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', -1, 64))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(RSVGConvert)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s output needs %s: %s", format, RSVGConvert, rsvgHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeConversionFailed, err, "%s to %s: %s", RSVGConvert, format, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
