package pipeline

import (
	"context"

	"github.com/matzehuels/nodemap/pkg/io"
)

// ExecuteDefinition builds a registry from def and runs the pipeline on it.
// The definition's prune flag is honored in addition to opts.Prune.
func (r *Runner) ExecuteDefinition(ctx context.Context, def *io.Definition, opts Options) (*Result, error) {
	reg, err := def.Build()
	if err != nil {
		return nil, err
	}
	opts.Prune = opts.Prune || def.Prune
	return r.Execute(ctx, reg, opts)
}

// ExecuteFile imports the definition file at path and runs the pipeline on it.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	def, err := io.Import(path)
	if err != nil {
		return nil, err
	}
	r.logger(opts).Debug("loaded definition", "path", path, "nodes", len(def.Nodes), "edges", len(def.Edges))
	return r.ExecuteDefinition(ctx, def, opts)
}
