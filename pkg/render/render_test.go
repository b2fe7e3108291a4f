package render

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/nodemap/pkg/diagram"
	"github.com/matzehuels/nodemap/pkg/errors"
)

type fakeEngine struct {
	svg   string
	err   error
	calls int
	doc   string
}

func (f *fakeEngine) Layout(_ context.Context, doc string) ([]byte, error) {
	f.calls++
	f.doc = doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.svg), nil
}

const fakeSVG = `<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0 0 100 50" xmlns="http://www.w3.org/2000/svg">
<g id="g" class="graph"></g>
</svg>`

func registry() *diagram.Registry {
	r := diagram.New(diagram.Options{})
	r.Node("Service A", nil)
	r.Edge("Service A", "Service B", nil)
	return r
}

func TestInjectStylesheet(t *testing.T) {
	got, err := InjectStylesheet([]byte(`<svg a="1"><g/></svg>`), "x{}")
	if err != nil {
		t.Fatalf("InjectStylesheet() error: %v", err)
	}
	want := "<svg a=\"1\"><defs><style type=\"text/css\"><![CDATA[\nx{}\n]]></style></defs>\n<g/></svg>"
	if string(got) != want {
		t.Errorf("InjectStylesheet() = %q, want %q", got, want)
	}
}

func TestInjectStylesheet_FirstMatchOnly(t *testing.T) {
	got, err := InjectStylesheet([]byte(`<svg><svg></svg></svg>`), "x{}")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(got), "<style"); n != 1 {
		t.Errorf("InjectStylesheet() inserted %d style blocks, want 1", n)
	}
	if !strings.HasPrefix(string(got), "<svg><defs>") {
		t.Errorf("style block should follow the first tag: %q", got)
	}
}

func TestInjectStylesheet_NoAnchor(t *testing.T) {
	for _, svg := range []string{"", "<html></html>", "<!DOCTYPE svg>"} {
		_, err := InjectStylesheet([]byte(svg), "x{}")
		if !errors.Is(err, errors.ErrCodeAnchorNotFound) {
			t.Errorf("InjectStylesheet(%q) error = %v, want ANCHOR_NOT_FOUND", svg, err)
		}
	}
}

func TestRender(t *testing.T) {
	eng := &fakeEngine{svg: fakeSVG}
	doc, err := Render(context.Background(), registry(), eng)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if eng.calls != 1 || eng.doc != doc.DOT {
		t.Errorf("engine called %d times with unexpected document", eng.calls)
	}
	if !strings.Contains(doc.DOT, "r_service_b [") {
		t.Error("Render() should synthesize missing endpoints before compiling")
	}
	if !strings.Contains(doc.CSS, "#g.r_service_b [id~=t_r_service_b] path") {
		t.Error("stylesheet should include synthesized nodes")
	}

	svg := string(doc.SVG)
	tagEnd := strings.Index(svg, `xmlns="http://www.w3.org/2000/svg">`) + len(`xmlns="http://www.w3.org/2000/svg">`)
	if !strings.HasPrefix(svg[tagEnd:], "<defs><style type=\"text/css\"><![CDATA[\n"+doc.CSS) {
		t.Errorf("stylesheet not embedded after the svg tag:\n%s", svg)
	}
}

func TestRender_EngineError(t *testing.T) {
	cause := fmt.Errorf("syntax error in line 3")
	_, err := Render(context.Background(), registry(), &fakeEngine{err: cause})

	if !errors.Is(err, errors.ErrCodeLayoutFailed) {
		t.Errorf("Render() error = %v, want LAYOUT_FAILED", err)
	}
	if !strings.Contains(err.Error(), "syntax error in line 3") {
		t.Errorf("Render() should keep the engine error: %v", err)
	}
}

func TestRender_NoAnchor(t *testing.T) {
	_, err := Render(context.Background(), registry(), &fakeEngine{svg: "garbage"})
	if !errors.Is(err, errors.ErrCodeAnchorNotFound) {
		t.Errorf("Render() error = %v, want ANCHOR_NOT_FOUND", err)
	}
}

func TestPrepare_LeavesSVGEmpty(t *testing.T) {
	doc := Prepare(registry())
	if doc.SVG != nil {
		t.Error("Prepare() should not lay out")
	}
	if doc.DOT == "" || doc.CSS == "" {
		t.Error("Prepare() should compile both texts")
	}
}

func TestConvert_MissingRSVG(t *testing.T) {
	orig := RSVGConvert
	RSVGConvert = "nodemap-no-such-rsvg-convert"
	t.Cleanup(func() { RSVGConvert = orig })

	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF error = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 2); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG error = %v, want UNSUPPORTED", err)
	}
}
