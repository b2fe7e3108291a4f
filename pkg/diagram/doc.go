// Package diagram builds directed graphs of named nodes and compiles them into
// a Graphviz DOT document and a matching interaction stylesheet.
//
// # Overview
//
// A [Registry] owns the nodes, groups and edges of one diagram. Node identity
// is derived from the display name, so edges may reference names that were
// never registered; [Registry.SynthesizeMissing] fills those in with
// placeholder nodes. [Registry.Prune] drops nodes without edges for a tighter
// diagram.
//
//	r := diagram.New(diagram.Options{Name: "Checkout"})
//	r.Node("Service A", nil)
//	r.Node("Service B", diagram.Attrs{}.With("group", diagram.String("Tier 1")))
//	r.Edge("Service A", "Service B", diagram.Attrs{}.With("label", diagram.String("calls")))
//	r.SynthesizeMissing()
//
//	dot := diagram.Compile(r)
//	css := diagram.Stylesheet(r)
//
// # Identifiers
//
// [IdentifierFor] lower-cases a name, collapses runs of characters outside
// [a-z0-9] into "_" and prefixes "r_": "Service A" becomes "r_service_a".
// Groups become subgraphs named by [ContainerIdentifierFor], "cluster_tier_1"
// for boxed clusters or "group_tier_1" with [Options.PlainGroups].
//
// # Attribute Values
//
// Attribute values are a closed set of variants: quoted strings ([String]),
// bare numbers ([Number], [Int]) and raw markup ([Raw], [HTML]) for Graphviz
// HTML-like labels. Quoting keeps the DOT line escapes \l, \n and \r intact.
//
// # Interaction
//
// Every node statement carries an href that adds the node's id as a class on
// the root graph element "g", and every edge carries the id
// "f_<from> t_<to>". [Stylesheet] emits selectors such as
//
//	#g.r_service_a [id~=f_r_service_a] path
//
// so that clicking a node highlights its outgoing and incoming edges once the
// stylesheet is embedded in the rendered SVG (see package render).
package diagram
