package render

import (
	"context"

	"github.com/matzehuels/nodemap/pkg/diagram"
	"github.com/matzehuels/nodemap/pkg/errors"
)

// Document holds the texts compiled from one registry and, once laid out,
// the interactive SVG.
type Document struct {
	DOT string // Graphviz document
	CSS string // Interaction stylesheet
	SVG []byte // Engine output with the stylesheet embedded; nil until laid out
}

// Prepare synthesizes placeholder nodes for dangling edge endpoints and
// compiles the DOT document and stylesheet.
func Prepare(r *diagram.Registry) *Document {
	r.SynthesizeMissing()
	return &Document{
		DOT: diagram.Compile(r),
		CSS: diagram.Stylesheet(r),
	}
}

// Layout runs the engine over the DOT document and stores the SVG with the
// stylesheet embedded. Engine errors are wrapped with
// [errors.ErrCodeLayoutFailed]; output without an svg tag fails with
// [errors.ErrCodeAnchorNotFound].
func (d *Document) Layout(ctx context.Context, eng Engine) error {
	svg, err := eng.Layout(ctx, d.DOT)
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidLayout) {
			return err
		}
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout failed")
	}
	out, err := InjectStylesheet(svg, d.CSS)
	if err != nil {
		return err
	}
	d.SVG = out
	return nil
}

// Render prepares the registry and lays it out with eng.
func Render(ctx context.Context, r *diagram.Registry, eng Engine) (*Document, error) {
	doc := Prepare(r)
	if err := doc.Layout(ctx, eng); err != nil {
		return nil, err
	}
	return doc, nil
}

// InjectStylesheet embeds css right after the first opening svg tag.
func InjectStylesheet(svg []byte, css string) ([]byte, error) {
	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return nil, errors.New(errors.ErrCodeAnchorNotFound, "rendered output has no <svg> tag")
	}

	block := "<defs><style type=\"text/css\"><![CDATA[\n" + css + "\n]]></style></defs>\n"
	out := make([]byte, 0, len(svg)+len(block))
	out = append(out, svg[:loc[1]]...)
	out = append(out, block...)
	return append(out, svg[loc[1]:]...), nil
}
