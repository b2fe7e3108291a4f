package diagram

import "maps"

// Default highlight styles and passthrough CSS.
const (
	DefaultRankDir   = "LR"
	DefaultFromStyle = "stroke: red; stroke-width: 4px;"
	DefaultToStyle   = "stroke: green; stroke-width: 4px;"
	DefaultCSS       = ".node { cursor: pointer; }"
)

// Options configures a [Registry] and the documents compiled from it.
//
// Every field has a built-in default that applies when the field is left at
// its zero value. Attribute fields follow the nil/empty rule of [Attrs]: nil
// selects the default mapping, a non-nil empty mapping suppresses the
// corresponding default declaration.
type Options struct {
	// Name is the diagram title, emitted as the graph label when set.
	Name string
	// RankDir is the layout direction (default "LR").
	RankDir string

	// Graph holds additional graph-level settings (default: none).
	Graph Attrs
	// Node and Edge are the document-wide node and edge defaults.
	Node Attrs
	Edge Attrs
	// Group holds the settings of every group subgraph. A group's label is
	// added as a fallback, so an explicit label here wins.
	Group Attrs
	// GroupNode and GroupEdge are node and edge defaults inside groups.
	GroupNode Attrs
	GroupEdge Attrs
	// MissingNode is applied to placeholder nodes created by
	// [Registry.SynthesizeMissing].
	MissingNode Attrs

	// PlainGroups renders groups as unboxed "group_" subgraphs instead of
	// "cluster_" subgraphs.
	PlainGroups bool

	// SameRank lists display names laid out at equal rank.
	SameRank []string

	// FromStyle and ToStyle are the CSS declarations applied to edges leaving
	// and entering the selected node.
	//
	// An empty string, here and in CSS, selects the default. Set a
	// whitespace-only value such as " " to emit no declarations.
	FromStyle string
	ToStyle   string
	// CSS is appended verbatim to the stylesheet.
	CSS string

	// Raw is appended verbatim to the document body.
	Raw string
	// GroupRaw maps a group name to a fragment appended verbatim at the end
	// of that group's subgraph.
	GroupRaw map[string]string
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		RankDir:     DefaultRankDir,
		Graph:       Attrs{},
		Node:        Attrs{{Key: "shape", Value: String("box3d")}},
		Edge:        Attrs{{Key: "fontsize", Value: Int(7)}, {Key: "color", Value: String("black")}},
		Group:       Attrs{{Key: "color", Value: String("blue")}},
		GroupNode:   Attrs{{Key: "shape", Value: String("rectangle")}},
		GroupEdge:   Attrs{{Key: "color", Value: String("black")}},
		MissingNode: Attrs{{Key: "shape", Value: String("rectangle")}},
		FromStyle:   DefaultFromStyle,
		ToStyle:     DefaultToStyle,
		CSS:         DefaultCSS,
	}
}

// withDefaults fills every zero field of o from [DefaultOptions]. Fields are
// replaced whole; attribute mappings are not merged key by key. All mappings
// and slices are copied so the result shares nothing with the caller.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	out := o

	out.RankDir = orString(o.RankDir, d.RankDir)
	out.FromStyle = orString(o.FromStyle, d.FromStyle)
	out.ToStyle = orString(o.ToStyle, d.ToStyle)
	out.CSS = orString(o.CSS, d.CSS)

	out.Graph = orAttrs(o.Graph, d.Graph)
	out.Node = orAttrs(o.Node, d.Node)
	out.Edge = orAttrs(o.Edge, d.Edge)
	out.Group = orAttrs(o.Group, d.Group)
	out.GroupNode = orAttrs(o.GroupNode, d.GroupNode)
	out.GroupEdge = orAttrs(o.GroupEdge, d.GroupEdge)
	out.MissingNode = orAttrs(o.MissingNode, d.MissingNode)

	out.SameRank = append([]string(nil), o.SameRank...)
	out.GroupRaw = maps.Clone(o.GroupRaw)
	return out
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orAttrs(v, def Attrs) Attrs {
	if v == nil {
		return def.Clone()
	}
	return v.Clone()
}
