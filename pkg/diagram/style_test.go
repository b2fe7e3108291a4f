package diagram

import (
	"strings"
	"testing"
)

func TestStylesheet_Empty(t *testing.T) {
	got := Stylesheet(New(Options{}))
	want := "{" + DefaultFromStyle + "}\n\n{" + DefaultToStyle + "}\n\n" + DefaultCSS + "\n"
	if got != want {
		t.Errorf("Stylesheet() = %q, want %q", got, want)
	}
}

func TestStylesheet_Scenario(t *testing.T) {
	css := Stylesheet(scenario())

	want := "#g.r_service_b [id~=f_r_service_b] path,\n" +
		"#g.r_service_a [id~=f_r_service_a] path{stroke: red; stroke-width: 4px;}\n\n" +
		"#g.r_service_b [id~=t_r_service_b] path,\n" +
		"#g.r_service_a [id~=t_r_service_a] path{stroke: green; stroke-width: 4px;}\n\n" +
		".node { cursor: pointer; }\n"
	if css != want {
		t.Errorf("Stylesheet() =\n%s\nwant\n%s", css, want)
	}
}

func TestStylesheet_CustomStyles(t *testing.T) {
	r := New(Options{FromStyle: "stroke: blue;", ToStyle: "stroke: orange;", CSS: ".edge text { display: none; }"})
	r.Node("a", nil)
	css := Stylesheet(r)

	for _, c := range []string{
		"#g.r_a [id~=f_r_a] path{stroke: blue;}",
		"#g.r_a [id~=t_r_a] path{stroke: orange;}",
		".edge text { display: none; }\n",
	} {
		if !strings.Contains(css, c) {
			t.Errorf("Stylesheet() missing %q:\n%s", c, css)
		}
	}
}

func TestStylesheet_IncludesPlaceholders(t *testing.T) {
	r := New(Options{})
	r.Edge("X", "Y", nil)

	if strings.Contains(Stylesheet(r), "r_x") {
		t.Error("unsynthesized endpoints should not get selectors")
	}

	r.SynthesizeMissing()
	css := Stylesheet(r)
	for _, id := range []string{"r_x", "r_y"} {
		if !strings.Contains(css, "#g."+id+" [id~=f_"+id+"] path") {
			t.Errorf("Stylesheet() missing selector for %s", id)
		}
	}
}

func TestStylesheet_MatchesEdgeIDs(t *testing.T) {
	r := scenario()
	dot := Compile(r)
	css := Stylesheet(r)

	for _, e := range r.Edges() {
		id := EdgeID(e.FromID, e.ToID)
		if !strings.Contains(dot, `id="`+id+`"`) {
			t.Errorf("DOT missing edge id %q", id)
		}
		from, to, _ := strings.Cut(id, " ")
		if !strings.Contains(css, "[id~="+from+"]") || !strings.Contains(css, "[id~="+to+"]") {
			t.Errorf("stylesheet does not address edge id %q", id)
		}
	}
}

func TestStylesheet_EmptyAndBlankStyles(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		missing []string
	}{
		{
			name:    "empty selects defaults",
			opts:    Options{FromStyle: "", ToStyle: "", CSS: ""},
			want:    []string{"{" + DefaultFromStyle + "}", "{" + DefaultToStyle + "}", DefaultCSS + "\n"},
			missing: nil,
		},
		{
			name:    "blank suppresses defaults",
			opts:    Options{FromStyle: " ", ToStyle: " ", CSS: " "},
			want:    []string{"[id~=f_r_a] path{ }", "[id~=t_r_a] path{ }"},
			missing: []string{DefaultFromStyle, DefaultToStyle, DefaultCSS},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.opts)
			r.Node("a", nil)
			css := Stylesheet(r)
			for _, c := range tt.want {
				if !strings.Contains(css, c) {
					t.Errorf("Stylesheet() missing %q:\n%s", c, css)
				}
			}
			for _, c := range tt.missing {
				if strings.Contains(css, c) {
					t.Errorf("Stylesheet() should not contain %q:\n%s", c, css)
				}
			}
		})
	}
}
