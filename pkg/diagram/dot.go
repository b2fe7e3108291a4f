package diagram

import (
	"bytes"
	"fmt"
)

// RootID is the DOT id of the root graph. The stylesheet selectors and the
// node hyperlinks both address the rendered graph element by this id.
const RootID = "g"

// Compile renders the registry as a Graphviz DOT document.
//
// Node statements are decorated with an href that sets the selected node's id
// as a class on the root graph element, and edge statements with a tooltip
// and a compound id ("f_<from> t_<to>") matched by [Stylesheet]. Decoration is
// applied to copies; the registry is left unchanged, so Compile is a pure
// function of the registry.
//
// Compile does not synthesize missing nodes. Call
// [Registry.SynthesizeMissing] first if edges may reference unregistered names.
func Compile(r *Registry) string {
	opts := r.opts

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  id=%s;\n", quote(RootID))
	fmt.Fprintf(&buf, "  rankdir=%s;\n", quote(opts.RankDir))
	if opts.Name != "" {
		fmt.Fprintf(&buf, "  label=%s;\n", quote(opts.Name))
	}
	if s := SerializeAttrs(opts.Graph); s != "" {
		fmt.Fprintf(&buf, "  %s\n", s)
	}
	writeDefaults(&buf, "  ", opts.Node, opts.Edge)

	// Sections are separated by a single blank line; empty sections are omitted.
	for _, g := range r.groups {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph %s {\n", ContainerIdentifierFor(g.name, !opts.PlainGroups))
		settings := opts.Group.WithDefaults(Attrs{{Key: "label", Value: String(g.name)}})
		fmt.Fprintf(&buf, "    %s\n", SerializeAttrs(settings))
		writeDefaults(&buf, "    ", opts.GroupNode, opts.GroupEdge)
		g.nodes.each(func(n *Node) { writeNode(&buf, "    ", n) })
		if raw := opts.GroupRaw[g.name]; raw != "" {
			buf.WriteString(raw)
			buf.WriteString("\n")
		}
		buf.WriteString("  }\n")
	}

	if len(r.external.order) > 0 {
		buf.WriteString("\n")
		r.external.each(func(n *Node) { writeNode(&buf, "  ", n) })
	}

	if len(r.edges) > 0 {
		buf.WriteString("\n")
		for _, e := range r.edges {
			attrs := decorateEdge(e)
			fmt.Fprintf(&buf, "  %s -> %s%s;\n", e.FromID, e.ToID, SerializeList(attrs))
		}
	}

	if opts.Raw != "" {
		buf.WriteString(opts.Raw)
		buf.WriteString("\n")
	}

	// Same-rank entries naming no registered node (pruned or never declared)
	// are dropped so the block cannot create stray nodes.
	var ranked []ID
	for _, name := range opts.SameRank {
		if id := IdentifierFor(name); r.index[id] != nil {
			ranked = append(ranked, id)
		}
	}
	if len(ranked) > 0 {
		buf.WriteString("  { rank=same;")
		for _, id := range ranked {
			fmt.Fprintf(&buf, " %s;", id)
		}
		buf.WriteString(" }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDefaults(buf *bytes.Buffer, indent string, node, edge Attrs) {
	if len(node) > 0 {
		fmt.Fprintf(buf, "%snode%s;\n", indent, SerializeList(node))
	}
	if len(edge) > 0 {
		fmt.Fprintf(buf, "%sedge%s;\n", indent, SerializeList(edge))
	}
}

func writeNode(buf *bytes.Buffer, indent string, n *Node) {
	fmt.Fprintf(buf, "%s%s%s;\n", indent, n.ID, SerializeList(decorateNode(n)))
}

// SelectAction returns the hyperlink payload that marks id as selected on the
// rendered root graph element.
func SelectAction(id ID) string {
	return fmt.Sprintf("javascript:(function(){document.getElementById('%s').setAttribute('class', 'graph %s')})()", RootID, id)
}

// EdgeID returns the compound element id of an edge between two nodes.
func EdgeID(from, to ID) string {
	return fromToken(from) + " " + toToken(to)
}

// EdgeTooltip returns the tooltip shown for an edge between two display names.
func EdgeTooltip(from, to string) string {
	return from + " -&gt; " + to
}

func fromToken(id ID) string { return "f_" + string(id) }
func toToken(id ID) string   { return "t_" + string(id) }

func decorateNode(n *Node) Attrs {
	return n.Attrs.With("href", String(SelectAction(n.ID)))
}

func decorateEdge(e Edge) Attrs {
	attrs := e.Attrs.With("edgetooltip", String(EdgeTooltip(e.From, e.To)))
	attrs.Set("id", String(EdgeID(e.FromID, e.ToID)))
	return attrs
}
