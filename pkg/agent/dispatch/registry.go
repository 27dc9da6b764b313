// Package dispatch validates and executes classified tool intents against a
// tool registry, strictly in order. Tools may have side effects, so nothing
// here runs concurrently. Every failure — missing arguments, executor
// errors, panics, unknown tags — is converted into an error-status event in
// the conversation record; one intent's failure never blocks the next.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/intent"
)

// Executor runs one tool invocation with validated arguments and returns
// the tool's textual output.
type Executor func(ctx context.Context, args map[string]interface{}) (string, error)

// Spec binds one intent kind to its executor, its required argument
// fields, and the catalog text the classifier advertises for it.
type Spec struct {
	// Description says what the tool does, phrased for the classifier.
	Description string

	// Args maps argument names to their catalog descriptions.
	Args map[string]string

	// Required names the argument fields the dispatcher checks before
	// invoking Run.
	Required []string

	// Run executes the tool.
	Run Executor
}

// Registry maps each implemented intent kind to its spec. The kind set is
// closed; kinds without an entry are either the no-op, a
// recognized-but-unimplemented tag, or rejected at registration.
type Registry struct {
	specs map[intent.Kind]Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[intent.Kind]Spec)}
}

// Register binds a spec to a kind. Registration fails for the no-op kind,
// for recognized-but-unimplemented kinds, for tags outside the closed kind
// set, for duplicate registrations, and for specs with no executor.
func (r *Registry) Register(kind intent.Kind, spec Spec) error {
	if _, ok := intent.ParseKind(string(kind)); !ok {
		return fmt.Errorf("cannot register unrecognized kind: %s", kind)
	}
	if kind == intent.KindNone {
		return fmt.Errorf("cannot register an executor for the none intent")
	}
	if kind.Unimplemented() {
		return fmt.Errorf("kind %s is reserved as not implemented", kind)
	}
	if spec.Run == nil {
		return fmt.Errorf("spec for %s has no executor", kind)
	}
	if _, exists := r.specs[kind]; exists {
		return fmt.Errorf("kind %s is already registered", kind)
	}

	r.specs[kind] = spec
	return nil
}

// Lookup returns the spec for a kind.
func (r *Registry) Lookup(kind intent.Kind) (Spec, bool) {
	spec, ok := r.specs[kind]
	return spec, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []intent.Kind {
	kinds := make([]intent.Kind, 0, len(r.specs))
	for k := range r.specs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Catalog builds the classifier's tool catalog from the registered specs,
// in sorted kind order for prompt determinism.
func (r *Registry) Catalog() []intent.Descriptor {
	kinds := r.Kinds()
	catalog := make([]intent.Descriptor, 0, len(kinds))
	for _, k := range kinds {
		spec := r.specs[k]
		catalog = append(catalog, intent.Descriptor{
			Name:        string(k),
			Description: spec.Description,
			Args:        spec.Args,
			Required:    spec.Required,
		})
	}
	return catalog
}
