// Package llm provides abstractions for LLM provider integration.
//
// Providers handle API communication with LLM services and return plain
// chat messages. The agent layer owns everything above that: recording
// events, accounting usage, and deciding what to do with the reply. This
// separation keeps providers reusable outside the agent (batch scripts,
// one-off completions) and testable with fakes.
package llm

import (
	"context"
	"sync"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// Provider defines the interface for LLM integrations.
//
// A provider performs exactly one request/response completion per Complete
// call. Streaming is deliberately absent: the engine's contract with its
// model collaborator is a single invoke returning content plus optional
// usage, and every caller in the engine consumes replies whole.
type Provider interface {
	// Complete sends messages to the LLM and returns the assistant's
	// full response message. The returned message carries the call's
	// reported token usage when the API provided it.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModel returns the model identifier in use.
	GetModel() string

	// GetModelInfo returns metadata about the model being used.
	GetModelInfo() *types.ModelInfo
}

// ModelCloner is an optional interface providers can implement to support
// lightweight per-call model overrides without constructing a second
// provider from scratch. The clone shares credentials and transport with
// the original but directs calls to the given model.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}

// Factory memoizes providers by model identifier. It replaces the pattern
// of a module-level cached model handle: the cache lives on an explicit
// object owned by whoever constructs the agent, and lookups for a model id
// construct the provider at most once.
type Factory struct {
	construct func(model string) (Provider, error)
	mu        sync.Mutex
	providers map[string]Provider
}

// NewFactory creates a factory that builds providers with the given
// constructor. The constructor is invoked at most once per model id.
func NewFactory(construct func(model string) (Provider, error)) *Factory {
	return &Factory{
		construct: construct,
		providers: make(map[string]Provider),
	}
}

// Get returns the memoized provider for the model id, constructing it on
// first use. Construction failures are not cached, so a transient failure
// (bad network, missing key fixed later) can be retried.
func (f *Factory) Get(model string) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.providers[model]; ok {
		return p, nil
	}

	p, err := f.construct(model)
	if err != nil {
		return nil, err
	}
	f.providers[model] = p
	return p, nil
}
