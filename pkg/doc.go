// Package pkg provides the core libraries for nodemap interactive diagrams.
//
// # Overview
//
// Nodemap turns a declarative list of nodes, groups and edges into a Graphviz
// diagram in which clicking a node highlights the edges leaving it and the
// edges entering it. The highlighting is plain CSS embedded in the SVG; no
// script beyond the node hyperlinks is involved.
//
// # Architecture
//
// The typical data flow:
//
//	Definition file (TOML / YAML / JSON)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [diagram] package (registry, DOT compiler, stylesheet compiler)
//	         ↓
//	    [render] package (layout engine + stylesheet injection)
//	         ↓
//	    SVG / DOT / CSS / PDF / PNG output
//
// [pipeline] orchestrates these stages with caching ([cache]) and is shared
// by the CLI and the HTTP API. [store] persists definitions for the API.
//
// # Quick Start
//
//	r := diagram.New(diagram.Options{})
//	r.Node("Service A", nil)
//	r.Node("Service B", diagram.Attrs{}.With("group", diagram.String("Tier 1")))
//	r.Edge("Service A", "Service B", nil)
//
//	doc, err := render.Render(ctx, r, render.Graphviz{})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("services.svg", doc.SVG, 0644)
//
// # Packages
//
//   - [diagram]: node/group/edge registry, DOT and stylesheet compilers
//   - [render]: layout engine interface, Graphviz adapter, SVG injection
//   - [io]: definition file formats
//   - [pipeline]: cached render runs
//   - [cache]: artifact caches (file, memory, redis)
//   - [store]: stored definitions (memory, file, mongo)
//   - [errors]: coded errors shared by CLI and API
//   - [observability]: metric and tracing hooks
//   - [buildinfo]: version information
//
// [diagram]: github.com/matzehuels/nodemap/pkg/diagram
// [render]: github.com/matzehuels/nodemap/pkg/render
// [io]: github.com/matzehuels/nodemap/pkg/io
// [pipeline]: github.com/matzehuels/nodemap/pkg/pipeline
// [cache]: github.com/matzehuels/nodemap/pkg/cache
// [store]: github.com/matzehuels/nodemap/pkg/store
// [errors]: github.com/matzehuels/nodemap/pkg/errors
// [observability]: github.com/matzehuels/nodemap/pkg/observability
// [buildinfo]: github.com/matzehuels/nodemap/pkg/buildinfo
package pkg
