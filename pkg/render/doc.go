// Package render turns a diagram registry into an interactive SVG.
//
// # Overview
//
// The compilers in package diagram produce two texts from one registry: a
// Graphviz DOT document and an interaction stylesheet. This package hands the
// DOT document to a layout [Engine] and embeds the stylesheet in the SVG the
// engine returns:
//
//	doc, err := render.Render(ctx, reg, render.Graphviz{})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("diagram.svg", doc.SVG, 0o644)
//
// [Render] is [Prepare] followed by [Document.Layout]. Callers that cache
// rendered output (see package pipeline) call the two steps separately so the
// cache key can be derived from the compiled texts before the engine runs.
//
// # Layout Engines
//
// [Graphviz] runs Graphviz in-process through goccy/go-graphviz (a WebAssembly
// build, so no system install is needed). The layout algorithm is selectable
// with [Graphviz.Layout]; see [Layouts] for the supported names.
//
// # Stylesheet Injection
//
// [InjectStylesheet] inserts the stylesheet as
//
//	<defs><style type="text/css"><![CDATA[ ... ]]></style></defs>
//
// directly after the first opening svg tag. Engine output without such a tag
// is rejected with [errors.ErrCodeAnchorNotFound].
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert the SVG using the external rsvg-convert tool
// (from librsvg).
//
// [errors.ErrCodeAnchorNotFound]: github.com/matzehuels/nodemap/pkg/errors
package render
