package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nodemap/pkg/diagram"
	"github.com/matzehuels/nodemap/pkg/errors"
)

const tomlDef = `
name = "Checkout"

[options]
rankdir = "TB"
same_rank = ["Service A", "Service B"]

[options.edge]

[[nodes]]
name = "Service A"

[[nodes]]
name = "Service B"
group = "Tier 1"
attrs = { color = "grey", label = "<<b>B</b>>", penwidth = 2 }

[[edges]]
from = "Service A"
to = "Service B"
attrs = { label = "calls" }
`

const yamlDef = `
name: Checkout
options:
  rankdir: TB
  same_rank: [Service A, Service B]
  edge: {}
nodes:
  - name: Service A
  - name: Service B
    group: Tier 1
    attrs:
      color: grey
      label: "<<b>B</b>>"
      penwidth: 2
edges:
  - from: Service A
    to: Service B
    attrs:
      label: calls
`

const jsonDef = `{
  "name": "Checkout",
  "options": {"rankdir": "TB", "same_rank": ["Service A", "Service B"], "edge": {}},
  "nodes": [
    {"name": "Service A"},
    {"name": "Service B", "group": "Tier 1", "attrs": {"color": "grey", "label": "<<b>B</b>>", "penwidth": 2}}
  ],
  "edges": [{"from": "Service A", "to": "Service B", "attrs": {"label": "calls"}}]
}`

func TestRead_AllFormatsAgree(t *testing.T) {
	inputs := map[Format]string{
		FormatTOML: tomlDef,
		FormatYAML: yamlDef,
		FormatJSON: jsonDef,
	}

	var want string
	for _, format := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		def, err := Read(strings.NewReader(inputs[format]), format)
		if err != nil {
			t.Fatalf("Read(%s) error: %v", format, err)
		}
		r, err := def.Build()
		if err != nil {
			t.Fatalf("Build(%s) error: %v", format, err)
		}
		dot := diagram.Compile(r)
		if want == "" {
			want = dot
			continue
		}
		if dot != want {
			t.Errorf("%s compiles differently:\n%s\nwant\n%s", format, dot, want)
		}
	}

	for _, c := range []string{
		`  label="Checkout";`,
		`  rankdir="TB";`,
		`    r_service_b [ color="grey"; label=<<b>B</b>>; penwidth=2; group="Tier 1"; id="r_service_b";`,
		`  { rank=same; r_service_a; r_service_b; }`,
	} {
		if !strings.Contains(want, c) {
			t.Errorf("compiled definition missing %q:\n%s", c, want)
		}
	}
	if strings.Contains(want, "\n  edge [") {
		t.Error("empty edge mapping should suppress edge defaults")
	}
}

func TestReadYAML_Empty(t *testing.T) {
	def, err := ReadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadYAML(empty) error: %v", err)
	}
	if len(def.Nodes) != 0 {
		t.Error("empty document should have no nodes")
	}
}

func TestRead_Malformed(t *testing.T) {
	tests := map[Format]string{
		FormatTOML: "nodes = [",
		FormatYAML: "nodes: [",
		FormatJSON: `{"nodes": [`,
	}
	for format, in := range tests {
		_, err := Read(strings.NewReader(in), format)
		if !errors.Is(err, errors.ErrCodeInvalidDefinition) {
			t.Errorf("Read(%s) error = %v, want INVALID_DEFINITION", format, err)
		}
	}
	if _, err := Read(strings.NewReader(""), "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"dir/a.YAML", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.json", FormatJSON, false},
		{"a.dot", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.toml")
	if err := os.WriteFile(path, []byte(tomlDef), 0644); err != nil {
		t.Fatal(err)
	}

	def, err := Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if def.Name != "Checkout" || len(def.Nodes) != 2 || len(def.Edges) != 1 {
		t.Errorf("Import() = %+v", def)
	}

	_, err = Import(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"empty node name", Definition{Nodes: []NodeDef{{Name: "  "}}}},
		{"control char group", Definition{Nodes: []NodeDef{{Name: "a", Group: "G\x00"}}}},
		{"empty edge endpoint", Definition{Edges: []EdgeDef{{From: "a"}}}},
		{"bad same rank", Definition{Options: OptionsDef{SameRank: []string{""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.def.Build()
			if !errors.Is(err, errors.ErrCodeInvalidDefinition) {
				t.Errorf("Build() error = %v, want INVALID_DEFINITION", err)
			}
		})
	}
}

func TestBuild_GroupFieldWins(t *testing.T) {
	def := Definition{Nodes: []NodeDef{{
		Name:  "a",
		Group: "Field",
		Attrs: map[string]any{"group": "Attr"},
	}}}
	r, err := def.Build()
	if err != nil {
		t.Fatal(err)
	}
	if g := r.Groups(); len(g) != 1 || g[0].Name != "Field" {
		t.Errorf("Groups() = %v, want Field", g)
	}
}

func TestBuild_DanglingEdgesAllowed(t *testing.T) {
	def := Definition{Edges: []EdgeDef{{From: "X", To: "Y"}}}
	r, err := def.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if r.NodeCount() != 0 || r.EdgeCount() != 1 {
		t.Errorf("nodes=%d edges=%d", r.NodeCount(), r.EdgeCount())
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	def, err := ReadTOML(strings.NewReader(tomlDef))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(def, &buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	r1, _ := def.Build()
	r2, _ := back.Build()
	if diagram.Compile(r1) != diagram.Compile(r2) {
		t.Error("JSON round trip changed the compiled document")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	def := &Definition{Name: "x", Nodes: []NodeDef{{Name: "a"}}}
	if err := ExportJSON(def, path); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	back, err := Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if back.Name != "x" || len(back.Nodes) != 1 {
		t.Errorf("Import() = %+v", back)
	}
}

func TestImport_Examples(t *testing.T) {
	for _, name := range []string{"services.toml", "services.yaml"} {
		t.Run(name, func(t *testing.T) {
			def, err := Import(filepath.Join("..", "..", "examples", name))
			if err != nil {
				t.Fatalf("Import error: %v", err)
			}
			r, err := def.Build()
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			if r.NodeCount() != 4 || r.EdgeCount() != 3 {
				t.Errorf("nodes=%d edges=%d, want 4 and 3", r.NodeCount(), r.EdgeCount())
			}
			if g := r.Groups(); len(g) != 1 || g[0].Name != "Backend" {
				t.Errorf("Groups() = %v, want Backend", g)
			}
		})
	}
}
