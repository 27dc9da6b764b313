package agent

import (
	"context"

	"github.com/enso-labs/gilfoyle-sub000/pkg/thread"
	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// respond generates the assistant reply for the current state: the system
// message plus the full rendered context go to the model in one call. On
// success the reply is recorded as an llm_response event tagged with the
// model id and the call's usage is added onto the running totals. On
// failure an llm_error event is recorded and the error text becomes the
// user-visible content — the caller never sees a raised error.
func (a *Agent) respond(ctx context.Context, state thread.State) (string, thread.State) {
	provider, err := a.providers.Get(a.model)
	if err != nil {
		a.log.Errorf("reply provider %s unavailable: %v", a.model, err)
		state = state.Append(thread.IntentLLMError, err.Error(),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": "llm"}),
		)
		return err.Error(), state
	}

	messages := []*types.Message{
		types.NewSystemMessage(state.SystemMessage()),
		types.NewUserMessage(state.RenderContext()),
	}

	reply, err := provider.Complete(ctx, messages)
	if err != nil {
		a.log.Errorf("completion failed on %s: %v", a.model, err)
		state = state.Append(thread.IntentLLMError, err.Error(),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": "llm"}),
		)
		return err.Error(), state
	}

	state = state.Append(thread.IntentLLMResponse, reply.Content,
		thread.WithStatus(thread.StatusSuccess),
		thread.WithMetadata(map[string]interface{}{
			"type":  "llm",
			"model": provider.GetModel(),
		}),
	)
	state = state.AddUsage(a.usageFor(messages, reply))

	return reply.Content, state
}

// usageFor prefers the provider-reported usage and falls back to a
// tokenizer estimate so the running totals keep moving even behind
// gateways that omit usage blocks.
func (a *Agent) usageFor(request []*types.Message, reply *types.Message) types.TokenUsage {
	if reply.Usage != nil {
		return *reply.Usage
	}
	if a.tokenizer != nil {
		return a.tokenizer.EstimateUsage(request, reply.Content)
	}
	return types.TokenUsage{}
}
