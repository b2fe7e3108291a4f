package diagram

import "slices"

// Node is a registered diagram node.
type Node struct {
	ID    ID     // Derived from Name by [IdentifierFor]
	Name  string // Display name
	Group string // Owning group, "" for external nodes
	// Attrs always contains "label" and "id".
	Attrs Attrs
	// Missing marks placeholders created by [Registry.SynthesizeMissing].
	Missing bool
}

func (n Node) clone() Node {
	n.Attrs = n.Attrs.Clone()
	return n
}

// Group is a snapshot of a named group and its nodes in registration order.
type Group struct {
	Name  string
	Nodes []Node
}

// Edge is a directed relation between two display names. The endpoints need
// not be registered nodes; see [Registry.SynthesizeMissing].
type Edge struct {
	From   string
	FromID ID
	To     string
	ToID   ID
	Attrs  Attrs
}

func (e Edge) clone() Edge {
	e.Attrs = e.Attrs.Clone()
	return e
}

// partition is an insertion-ordered set of nodes keyed by ID.
type partition struct {
	order []ID
	nodes map[ID]*Node
}

func newPartition() *partition {
	return &partition{nodes: make(map[ID]*Node)}
}

// put stores n, keeping the position of an existing entry with the same ID.
func (p *partition) put(n *Node) {
	if _, ok := p.nodes[n.ID]; !ok {
		p.order = append(p.order, n.ID)
	}
	p.nodes[n.ID] = n
}

func (p *partition) remove(id ID) {
	if _, ok := p.nodes[id]; !ok {
		return
	}
	delete(p.nodes, id)
	p.order = slices.DeleteFunc(p.order, func(x ID) bool { return x == id })
}

func (p *partition) each(fn func(*Node)) {
	for _, id := range p.order {
		fn(p.nodes[id])
	}
}

func (p *partition) snapshot() []Node {
	out := make([]Node, 0, len(p.order))
	p.each(func(n *Node) { out = append(out, n.clone()) })
	return out
}

type group struct {
	name  string
	nodes *partition
}

// Registry owns the nodes, groups and edges of one diagram.
//
// A Registry is meant to be used by a single call sequence: construct,
// register nodes and edges, optionally synthesize or prune, then compile. It
// performs no locking.
type Registry struct {
	opts Options

	index       map[ID]*Node
	groups      []*group
	groupByName map[string]*group
	external    *partition
	edges       []Edge
}

// New creates an empty registry. Zero-valued fields of opts fall back to
// [DefaultOptions].
func New(opts Options) *Registry {
	return &Registry{
		opts:        opts.withDefaults(),
		index:       make(map[ID]*Node),
		groupByName: make(map[string]*group),
		external:    newPartition(),
	}
}

// Options returns a copy of the registry's effective options.
func (r *Registry) Options() Options {
	return r.opts.withDefaults()
}

// Node registers a node under its display name and returns the stored record.
//
// The "label" attribute defaults to name when absent or empty and "id" is
// always set to the derived identifier. A non-empty "group" attribute places
// the node in that group, creating the group on first use; otherwise the node
// is external. Registering an identifier again replaces the previous node,
// moving it between partitions if its group changed.
func (r *Registry) Node(name string, attrs Attrs) Node {
	return r.register(name, attrs, false)
}

func (r *Registry) register(name string, attrs Attrs, missing bool) Node {
	id := IdentifierFor(name)

	a := attrs.Clone()
	if v, ok := a.Get("label"); !ok || v.Text() == "" {
		a.Set("label", String(name))
	}
	a.Set("id", String(string(id)))

	var groupName string
	if v, ok := a.Get("group"); ok {
		groupName = v.Text()
	}

	n := &Node{ID: id, Name: name, Group: groupName, Attrs: a, Missing: missing}
	if prev, ok := r.index[id]; ok && prev.Group != groupName {
		r.partitionOf(prev.Group).remove(id)
	}
	r.partitionFor(groupName).put(n)
	r.index[id] = n
	return n.clone()
}

// partitionOf returns the existing partition for a group name, or the
// external partition.
func (r *Registry) partitionOf(groupName string) *partition {
	if groupName == "" {
		return r.external
	}
	if g, ok := r.groupByName[groupName]; ok {
		return g.nodes
	}
	return newPartition()
}

// partitionFor is partitionOf, creating the group when it does not exist.
func (r *Registry) partitionFor(groupName string) *partition {
	if groupName == "" {
		return r.external
	}
	g, ok := r.groupByName[groupName]
	if !ok {
		g = &group{name: groupName, nodes: newPartition()}
		r.groups = append(r.groups, g)
		r.groupByName[groupName] = g
	}
	return g.nodes
}

// Edge records a directed edge between two display names. Edges are kept in
// insertion order and parallel edges between the same pair are allowed.
func (r *Registry) Edge(from, to string, attrs Attrs) Edge {
	e := Edge{
		From:   from,
		FromID: IdentifierFor(from),
		To:     to,
		ToID:   IdentifierFor(to),
		Attrs:  attrs.Clone(),
	}
	r.edges = append(r.edges, e)
	return e.clone()
}

// SynthesizeMissing registers a placeholder node for every edge endpoint that
// has no node, using the MissingNode defaults. Placeholders are always
// external. It returns the number of nodes created; a second call creates
// none.
func (r *Registry) SynthesizeMissing() int {
	created := 0
	ensure := func(name string, id ID) {
		if _, ok := r.index[id]; ok {
			return
		}
		attrs := r.opts.MissingNode.Clone()
		attrs.Delete("group")
		r.register(name, attrs, true)
		created++
	}
	for _, e := range r.edges {
		ensure(e.From, e.FromID)
		ensure(e.To, e.ToID)
	}
	return created
}

// Prune removes every node that is not an endpoint of at least one edge and
// returns the number removed. Groups left empty are kept.
func (r *Registry) Prune() int {
	connected := make(map[ID]struct{}, 2*len(r.edges))
	for _, e := range r.edges {
		connected[e.FromID] = struct{}{}
		connected[e.ToID] = struct{}{}
	}

	var stale []*Node
	for id, n := range r.index {
		if _, ok := connected[id]; !ok {
			stale = append(stale, n)
		}
	}
	for _, n := range stale {
		r.partitionOf(n.Group).remove(n.ID)
		delete(r.index, n.ID)
	}
	return len(stale)
}

// Lookup returns the node registered under id.
func (r *Registry) Lookup(id ID) (Node, bool) {
	n, ok := r.index[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Groups returns every group in creation order.
func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = Group{Name: g.name, Nodes: g.nodes.snapshot()}
	}
	return out
}

// External returns the nodes that belong to no group, in registration order.
func (r *Registry) External() []Node {
	return r.external.snapshot()
}

// Nodes returns all nodes: grouped nodes in group order, then external nodes.
func (r *Registry) Nodes() []Node {
	out := make([]Node, 0, len(r.index))
	r.eachNode(func(n *Node) { out = append(out, n.clone()) })
	return out
}

// Edges returns the edges in insertion order.
func (r *Registry) Edges() []Edge {
	out := make([]Edge, len(r.edges))
	for i, e := range r.edges {
		out[i] = e.clone()
	}
	return out
}

// NodeCount returns the number of registered nodes.
func (r *Registry) NodeCount() int { return len(r.index) }

// EdgeCount returns the number of edges.
func (r *Registry) EdgeCount() int { return len(r.edges) }

// eachNode visits grouped nodes in group order, then external nodes.
func (r *Registry) eachNode(fn func(*Node)) {
	for _, g := range r.groups {
		g.nodes.each(fn)
	}
	r.external.each(fn)
}
