// Package io reads and writes diagram definition files.
//
// # Overview
//
// A definition lists the nodes and edges of one diagram together with the
// options a [diagram.Registry] is created with. Definitions can be written in
// TOML, YAML or JSON; [Import] picks the decoder from the file extension.
//
//	def, err := io.Import("services.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg, err := def.Build()
//
// # Format
//
// The same structure in TOML:
//
//	name = "Checkout"
//	prune = false
//
//	[options]
//	rankdir = "TB"
//	same_rank = ["Service A", "Service B"]
//
//	[options.node]
//	shape = "component"
//
//	[[nodes]]
//	name = "Service A"
//
//	[[nodes]]
//	name = "Service B"
//	group = "Tier 1"
//	attrs = { color = "grey", label = "<<b>B</b>>" }
//
//	[[edges]]
//	from = "Service A"
//	to = "Service B"
//	attrs = { label = "calls" }
//
// Only "name" is required for a node, and "from" and "to" for an edge. Edge
// endpoints need not be declared as nodes; rendering adds placeholders for
// them. Unknown keys are ignored.
//
// # Attribute Values
//
// Attribute maps are converted with [diagram.ValueOf] in key order. Strings
// become quoted values and numbers stay bare. A string starting with "<<" or
// a table {raw = "..."} is emitted verbatim as a Graphviz HTML-like label;
// {html = "..."} wraps its content in angle brackets first.
//
// # Defaults
//
// Leaving an options mapping out keeps its built-in default, while an empty
// mapping ({} or an empty TOML table) suppresses it.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a definition as indented JSON, the form
// the HTTP API stores and returns.
//
// [diagram.Registry]: github.com/matzehuels/nodemap/pkg/diagram
// [diagram.ValueOf]: github.com/matzehuels/nodemap/pkg/diagram
package io
