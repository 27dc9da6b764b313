// Package agent is the orchestration engine: it drives one conversation
// turn from free-text query to recorded reply. A turn appends the user
// input, classifies tool intents with one model call, dispatches the tools
// in order, and generates the assistant reply with a second model call —
// every step recorded in the thread.State that flows through by value.
//
// The engine holds no conversation state of its own. Callers own the
// State, and must not run two turns concurrently against the same logical
// conversation.
package agent

import (
	"context"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/dispatch"
	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/intent"
	"github.com/enso-labs/gilfoyle-sub000/pkg/llm"
	"github.com/enso-labs/gilfoyle-sub000/pkg/llm/tokenizer"
	"github.com/enso-labs/gilfoyle-sub000/pkg/logging"
	"github.com/enso-labs/gilfoyle-sub000/pkg/thread"
)

const defaultModel = "gpt-4o"

// Agent orchestrates conversation turns. Providers are resolved through a
// memoized factory keyed by model id, so the classifier and responder can
// run on different models without re-dialing anything.
type Agent struct {
	providers       *llm.Factory
	registry        *dispatch.Registry
	model           string
	classifierModel string
	tokenizer       *tokenizer.Tokenizer
	log             *logging.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel sets the model used for reply generation.
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithClassifierModel sets a separate model for intent classification.
// When unset, classification uses the reply model.
func WithClassifierModel(model string) Option {
	return func(a *Agent) {
		a.classifierModel = model
	}
}

// WithRegistry sets the tool registry the dispatcher executes against.
func WithRegistry(registry *dispatch.Registry) Option {
	return func(a *Agent) {
		a.registry = registry
	}
}

// New creates an Agent backed by the given provider factory.
func New(providers *llm.Factory, opts ...Option) *Agent {
	log, err := logging.NewLogger("agent")
	if err != nil {
		log.Warnf("file logging unavailable, using stderr: %v", err)
	}

	// Token counting degrades to provider-reported usage only if the
	// encoding cannot be loaded.
	tok, err := tokenizer.New()
	if err != nil {
		log.Warnf("tokenizer unavailable, usage estimation disabled: %v", err)
		tok = nil
	}

	a := &Agent{
		providers: providers,
		registry:  dispatch.NewRegistry(),
		model:     defaultModel,
		tokenizer: tok,
		log:       log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize creates a fresh conversation record: zero usage, no events,
// and the given system prompt (or the default when omitted).
func (a *Agent) Initialize(systemPrompt ...string) thread.State {
	return thread.New(systemPrompt...)
}

// Registry exposes the agent's tool registry for executor registration.
func (a *Agent) Registry() *dispatch.Registry {
	return a.registry
}

// Model returns the reply model identifier.
func (a *Agent) Model() string {
	return a.model
}

// ProcessQuery runs one full conversation turn: record the query, classify
// intents, dispatch tools, and generate the reply. It returns the
// user-visible content and the final state, and never returns an error —
// model and tool failures are recorded as events and surfaced as content.
func (a *Agent) ProcessQuery(ctx context.Context, query string, state thread.State) (string, thread.State) {
	state = state.Append(thread.IntentUserInput, query)

	intents := a.classify(ctx, query)
	a.log.Debugf("classified %q into %d intent(s)", query, len(intents))

	state = a.registry.ExecuteTools(ctx, intents, state)

	return a.respond(ctx, state)
}

// classify resolves the classifier provider and runs intent classification.
// A provider that cannot be constructed degrades to the none fallback, the
// same containment the classifier applies to its own failures.
func (a *Agent) classify(ctx context.Context, query string) []intent.ToolIntent {
	model := a.classifierModel
	if model == "" {
		model = a.model
	}

	provider, err := a.providers.Get(model)
	if err != nil {
		a.log.Errorf("classifier provider %s unavailable: %v", model, err)
		return intent.NoneFallback()
	}
	return intent.Classify(ctx, provider, query, a.registry.Catalog())
}
