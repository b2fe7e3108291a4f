package pipeline

import (
	"testing"

	"github.com/matzehuels/nodemap/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"css", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Layout != DefaultLayout {
		t.Errorf("Layout should be %s, got %s", DefaultLayout, opts.Layout)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %f, got %f", DefaultScale, opts.Scale)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Formats: []string{"svg", "css", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("duplicate formats should be removed, got %v", opts.Formats)
	}

	// Idempotent
	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if opts.Layout != before.Layout || len(opts.Formats) != len(before.Formats) {
		t.Error("options changed on second call")
	}
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad layout", Options{Layout: "spring"}, errors.ErrCodeInvalidLayout},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNeedsLayout(t *testing.T) {
	tests := []struct {
		formats []string
		want    bool
	}{
		{[]string{"dot"}, false},
		{[]string{"dot", "css"}, false},
		{[]string{"css", "svg"}, true},
		{[]string{"pdf"}, true},
		{[]string{"png"}, true},
	}
	for _, tt := range tests {
		opts := Options{Formats: tt.formats}
		if got := opts.NeedsLayout(); got != tt.want {
			t.Errorf("NeedsLayout(%v) = %v, want %v", tt.formats, got, tt.want)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Layout: "neato", Scale: 3}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Scale != 0 || k.Layout != "neato" {
		t.Errorf("svg key opts = %+v, scale should not apply", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("png key opts = %+v, want scale 3", k)
	}
}

func TestContentTypes(t *testing.T) {
	for _, f := range ValidFormats {
		if ContentTypes[f] == "" {
			t.Errorf("no content type for %s", f)
		}
	}
}
