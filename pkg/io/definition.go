package io

import (
	"fmt"

	"github.com/matzehuels/nodemap/pkg/diagram"
	"github.com/matzehuels/nodemap/pkg/errors"
)

// Definition is a diagram definition file.
type Definition struct {
	// Name is the diagram title.
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	// Prune drops nodes without edges before rendering.
	Prune   bool       `json:"prune,omitempty" yaml:"prune,omitempty" toml:"prune,omitempty"`
	Options OptionsDef `json:"options" yaml:"options,omitempty" toml:"options,omitempty"`
	Nodes   []NodeDef  `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges   []EdgeDef  `json:"edges" yaml:"edges" toml:"edges"`
}

// NodeDef declares one node.
type NodeDef struct {
	Name  string         `json:"name" yaml:"name" toml:"name"`
	Group string         `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" toml:"attrs,omitempty"`
}

// EdgeDef declares one edge between two display names.
type EdgeDef struct {
	From  string         `json:"from" yaml:"from" toml:"from"`
	To    string         `json:"to" yaml:"to" toml:"to"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" toml:"attrs,omitempty"`
}

// OptionsDef mirrors [diagram.Options]. A nil map keeps the default mapping;
// an empty map suppresses it.
type OptionsDef struct {
	RankDir     string            `json:"rankdir,omitempty" yaml:"rankdir,omitempty" toml:"rankdir,omitempty"`
	Graph       map[string]any    `json:"graph" yaml:"graph,omitempty" toml:"graph,omitempty"`
	Node        map[string]any    `json:"node" yaml:"node,omitempty" toml:"node,omitempty"`
	Edge        map[string]any    `json:"edge" yaml:"edge,omitempty" toml:"edge,omitempty"`
	Group       map[string]any    `json:"group" yaml:"group,omitempty" toml:"group,omitempty"`
	GroupNode   map[string]any    `json:"group_node" yaml:"group_node,omitempty" toml:"group_node,omitempty"`
	GroupEdge   map[string]any    `json:"group_edge" yaml:"group_edge,omitempty" toml:"group_edge,omitempty"`
	MissingNode map[string]any    `json:"missing_node" yaml:"missing_node,omitempty" toml:"missing_node,omitempty"`
	PlainGroups bool              `json:"plain_groups,omitempty" yaml:"plain_groups,omitempty" toml:"plain_groups,omitempty"`
	SameRank    []string          `json:"same_rank,omitempty" yaml:"same_rank,omitempty" toml:"same_rank,omitempty"`
	FromStyle   string            `json:"from_style,omitempty" yaml:"from_style,omitempty" toml:"from_style,omitempty"`
	ToStyle     string            `json:"to_style,omitempty" yaml:"to_style,omitempty" toml:"to_style,omitempty"`
	CSS         string            `json:"css,omitempty" yaml:"css,omitempty" toml:"css,omitempty"`
	Raw         string            `json:"raw,omitempty" yaml:"raw,omitempty" toml:"raw,omitempty"`
	GroupRaw    map[string]string `json:"group_raw,omitempty" yaml:"group_raw,omitempty" toml:"group_raw,omitempty"`
}

// DiagramOptions converts the definition options.
func (d *Definition) DiagramOptions() diagram.Options {
	o := d.Options
	return diagram.Options{
		Name:        d.Name,
		RankDir:     o.RankDir,
		Graph:       diagram.AttrsFromMap(o.Graph),
		Node:        diagram.AttrsFromMap(o.Node),
		Edge:        diagram.AttrsFromMap(o.Edge),
		Group:       diagram.AttrsFromMap(o.Group),
		GroupNode:   diagram.AttrsFromMap(o.GroupNode),
		GroupEdge:   diagram.AttrsFromMap(o.GroupEdge),
		MissingNode: diagram.AttrsFromMap(o.MissingNode),
		PlainGroups: o.PlainGroups,
		SameRank:    o.SameRank,
		FromStyle:   o.FromStyle,
		ToStyle:     o.ToStyle,
		CSS:         o.CSS,
		Raw:         o.Raw,
		GroupRaw:    o.GroupRaw,
	}
}

// Validate checks every display name and group name in the definition.
func (d *Definition) Validate() error {
	for i, n := range d.Nodes {
		if err := errors.ValidateDisplayName(n.Name); err != nil {
			return invalid(err, "node %d", i)
		}
		if err := errors.ValidateGroupName(n.Group); err != nil {
			return invalid(err, "node %q", n.Name)
		}
	}
	for i, e := range d.Edges {
		if err := errors.ValidateDisplayName(e.From); err != nil {
			return invalid(err, "edge %d: from", i)
		}
		if err := errors.ValidateDisplayName(e.To); err != nil {
			return invalid(err, "edge %d: to", i)
		}
	}
	for i, name := range d.Options.SameRank {
		if err := errors.ValidateDisplayName(name); err != nil {
			return invalid(err, "options.same_rank %d", i)
		}
	}
	return nil
}

// Build validates the definition and registers its nodes and edges in a new
// registry. A node's group field takes precedence over a "group" attribute.
// Prune is not applied here; see [Definition.Prune].
func (d *Definition) Build() (*diagram.Registry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r := diagram.New(d.DiagramOptions())
	for _, n := range d.Nodes {
		attrs := diagram.AttrsFromMap(n.Attrs)
		if n.Group != "" {
			attrs.Set("group", diagram.String(n.Group))
		}
		r.Node(n.Name, attrs)
	}
	for _, e := range d.Edges {
		r.Edge(e.From, e.To, diagram.AttrsFromMap(e.Attrs))
	}
	return r, nil
}

func invalid(err error, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidDefinition, "%s: %s", fmt.Sprintf(format, args...), errors.UserMessage(err))
}
