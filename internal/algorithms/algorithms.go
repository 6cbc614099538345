// Package algorithms bundles the built-in step producers.
//
// Each producer is a pure, cooperative engine.ProduceFunc: it receives the
// run inputs and the bound step builder, and yields fully-built steps one at
// a time. Producers own their state schema entirely, the runtime never
// interprets it.
package algorithms

import (
	"fmt"

	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/model"
)

// Registry is the built-in producer registry. It implements engine.Registry.
type Registry struct {
	defs []engine.Definition
}

// NewRegistry returns a registry with all built-in producers.
func NewRegistry() *Registry {
	return &Registry{
		defs: []engine.Definition{
			{ID: "binary-search", Produce: produceBinarySearch},
			{ID: "bubble-sort", Produce: produceBubbleSort},
			{ID: "self-attention", Produce: produceSelfAttention},
		},
	}
}

// Definition returns the producer definition for the given algorithm id.
func (r *Registry) Definition(id string) (engine.Definition, error) {
	for _, def := range r.defs {
		if def.ID == id {
			return def, nil
		}
	}
	return engine.Definition{}, fmt.Errorf("no producer registered for algorithm %q: %w", id, model.ErrNotFound)
}

// Definitions returns all registered producer definitions.
func (r *Registry) Definitions() []engine.Definition {
	return append([]engine.Definition(nil), r.defs...)
}
