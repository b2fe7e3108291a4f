package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodemap/pkg/errors"
)

// Engine lays out a DOT document and returns the rendered SVG.
type Engine interface {
	Layout(ctx context.Context, doc string) ([]byte, error)
}

// DefaultLayout is the Graphviz layout algorithm used when none is set.
const DefaultLayout = "dot"

// Layouts lists the Graphviz layout algorithms accepted by [Graphviz].
var Layouts = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// ValidateLayout checks that name is one of [Layouts]. An empty name is valid
// and selects [DefaultLayout].
func ValidateLayout(name string) error {
	if name == "" || slices.Contains(Layouts, name) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", name)
}

// Graphviz is an [Engine] backed by an in-process Graphviz.
type Graphviz struct {
	// Algorithm selects the layout algorithm (default "dot").
	Algorithm string
	// NormalizeViewBox rewrites the root svg tag to a zero-origin viewBox
	// with matching width and height, which scales better when embedded.
	NormalizeViewBox bool
}

// Layout renders doc to SVG.
func (e Graphviz) Layout(ctx context.Context, doc string) ([]byte, error) {
	if err := ValidateLayout(e.Algorithm); err != nil {
		return nil, err
	}
	layout := e.Algorithm
	if layout == "" {
		layout = DefaultLayout
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layout))

	g, err := graphviz.ParseBytes([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if e.NormalizeViewBox {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	out := make([]byte, 0, len(svg)-(loc[1]-loc[0])+len(tag))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}
