package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/nodemap/pkg/pipeline"
)

const testDefinition = `
[[nodes]]
name = "Service A"

[[nodes]]
name = "Service B"
group = "Tier 1"

[[nodes]]
name = "Lonely"

[[edges]]
from = "Service A"
to = "Service B"
attrs = { label = "calls" }
`

func writeDefinition(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "services.toml")
	if err := os.WriteFile(path, []byte(testDefinition), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,dot,css", []string{"svg", "dot", "css"}},
		{"whitespace and empties", " svg, ,css ", []string{"svg", "css"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "diagrams/services.toml", "diagrams/services"},
		{"out/services.svg", "services.toml", "out/services"},
		{"out/services", "services.toml", "out/services"},
		{"out/services.v2", "services.toml", "out/services.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("diagram.svg", "in.toml", []string{"svg"})
	if single["svg"] != "diagram.svg" {
		t.Errorf("single format path = %q", single["svg"])
	}

	multi := outputPaths("build/diagram.svg", "in.toml", []string{"svg", "css"})
	if multi["svg"] != "build/diagram.svg" || multi["css"] != "build/diagram.css" {
		t.Errorf("multi format paths = %v", multi)
	}

	derived := outputPaths("", "defs/in.yaml", []string{"dot"})
	if derived["dot"] != "defs/in.dot" {
		t.Errorf("derived path = %q", derived["dot"])
	}
}

// Text formats do not need the layout engine, so the full command runs here.
func TestRenderCommand_TextFormats(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir)
	out := filepath.Join(dir, "build", "services")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-f", "dot,css", "-o", out, "--prune", "--no-cache"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	dot, err := os.ReadFile(out + ".dot")
	if err != nil {
		t.Fatalf("dot output: %v", err)
	}
	if !strings.Contains(string(dot), "subgraph cluster_tier_1 {") {
		t.Errorf("dot output missing group subgraph:\n%s", dot)
	}
	if strings.Contains(string(dot), "r_lonely") {
		t.Error("--prune should drop unconnected nodes")
	}

	css, err := os.ReadFile(out + ".css")
	if err != nil {
		t.Fatalf("css output: %v", err)
	}
	if !strings.Contains(string(css), "#g.r_service_a [id~=f_r_service_a] path") {
		t.Errorf("css output missing selector:\n%s", css)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", input, "-f", "gif"}},
		{"bad layout", []string{"render", input, "-f", "dot", "--layout", "spring", "--no-cache"}},
		{"missing file", []string{"render", filepath.Join(dir, "nope.toml"), "-f", "dot", "--no-cache"}},
		{"stdout with many formats", []string{"render", input, "-f", "dot,css", "-o", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetArgs(tt.args)
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			if err := root.ExecuteContext(context.Background()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir)
	out := filepath.Join(dir, "services.json")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"export", input, "-o", out})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"group": "Tier 1"`) {
		t.Errorf("export output:\n%s", data)
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(testDefinition+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-changed:
		t.Error("a single save should be debounced into one callback")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchFile returned %v", err)
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:9000"); got != "0.0.0.0:9000" {
		t.Errorf("displayAddr kept = %q", got)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("NODEMAP_ADDR", ":9999")
	if got := envOr("ADDR", ":8080"); got != ":9999" {
		t.Errorf("envOr(ADDR) = %q, want :9999", got)
	}
	if got := envOr("UNSET_FOR_TEST", "fallback"); got != "fallback" {
		t.Errorf("envOr fallback = %q", got)
	}
}

func TestStatsLine(t *testing.T) {
	stats := pipeline.Stats{NodeCount: 4, EdgeCount: 3, Pruned: 1, LayoutTime: 12 * time.Millisecond}

	fresh := statsLine(stats, false)
	for _, want := range []string{"4 nodes", "3 edges", "1 pruned", "layout 12ms", "rendered"} {
		if !strings.Contains(fresh, want) {
			t.Errorf("statsLine() = %q, missing %q", fresh, want)
		}
	}

	cached := statsLine(stats, true)
	if !strings.Contains(cached, "cached") || strings.Contains(cached, "layout") {
		t.Errorf("statsLine(cached) = %q", cached)
	}
}
