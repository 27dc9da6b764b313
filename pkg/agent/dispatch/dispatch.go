package dispatch

import (
	"context"
	"fmt"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/intent"
	"github.com/enso-labs/gilfoyle-sub000/pkg/thread"
)

// metadataTypeTool tags tool-result events in event metadata.
const metadataTypeTool = "tool"

// ExecuteTools processes classified intents strictly in order against the
// registry, appending one event per processed intent:
//
//   - none: skipped, no event
//   - recognized but unimplemented: fixed "not implemented yet" error event
//   - missing required argument: "missing <field> parameter" error event,
//     tool not invoked
//   - executor success: success event carrying the tool's output
//   - executor failure or panic: "Tool execution failed: ..." error event
//   - unrecognized tag: "Unknown tool: <tag>" error event
//
// Dispatch continues past every failure and returns the accumulated state.
// The input state is never mutated.
func (r *Registry) ExecuteTools(ctx context.Context, intents []intent.ToolIntent, state thread.State) thread.State {
	for _, ti := range intents {
		state = r.executeOne(ctx, ti, state)
	}
	return state
}

func (r *Registry) executeOne(ctx context.Context, ti intent.ToolIntent, state thread.State) thread.State {
	kind, recognized := ti.Kind()
	if !recognized {
		return state.Append(ti.Intent,
			fmt.Sprintf("Unknown tool: %s", ti.Intent),
			thread.WithArgs(ti.Args),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": metadataTypeTool}),
		)
	}

	if kind == intent.KindNone {
		return state
	}

	if kind.Unimplemented() {
		return state.Append(string(kind),
			fmt.Sprintf("%s tool is not implemented yet.", kind),
			thread.WithArgs(ti.Args),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": metadataTypeTool}),
		)
	}

	spec, ok := r.Lookup(kind)
	if !ok {
		// A recognized, implementable kind with no registered executor is
		// indistinguishable from an unknown tool for the conversation.
		return state.Append(string(kind),
			fmt.Sprintf("Unknown tool: %s", kind),
			thread.WithArgs(ti.Args),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": metadataTypeTool}),
		)
	}

	if missing, ok := firstMissingField(spec.Required, ti.Args); !ok {
		return state.Append(string(kind),
			fmt.Sprintf("missing %s parameter", missing),
			thread.WithArgs(ti.Args),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": metadataTypeTool}),
		)
	}

	output, err := runExecutor(ctx, spec.Run, ti.Args)
	if err != nil {
		return state.Append(string(kind),
			fmt.Sprintf("Tool execution failed: %s", err.Error()),
			thread.WithArgs(ti.Args),
			thread.WithStatus(thread.StatusError),
			thread.WithMetadata(map[string]interface{}{"type": metadataTypeTool}),
		)
	}

	return state.Append(string(kind), output,
		thread.WithArgs(ti.Args),
		thread.WithStatus(thread.StatusSuccess),
		thread.WithMetadata(map[string]interface{}{"type": metadataTypeTool}),
	)
}

// firstMissingField returns the first required field that is absent, nil,
// or an empty string. The second return is true when all fields are present.
func firstMissingField(required []string, args map[string]interface{}) (string, bool) {
	for _, field := range required {
		v, ok := args[field]
		if !ok || v == nil {
			return field, false
		}
		if s, isString := v.(string); isString && s == "" {
			return field, false
		}
	}
	return "", true
}

// runExecutor invokes the executor, converting panics into errors so a
// misbehaving tool can never abort the dispatch pass. Panic values that are
// not errors or strings degrade to the fixed "Unknown error" message.
func runExecutor(ctx context.Context, run Executor, args map[string]interface{}) (output string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			switch v := rec.(type) {
			case error:
				err = v
			case string:
				err = fmt.Errorf("%s", v)
			default:
				err = fmt.Errorf("Unknown error")
			}
		}
	}()
	return run(ctx, args)
}
