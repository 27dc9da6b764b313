package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/enso-labs/gilfoyle-sub000/pkg/thread"
	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// compactThreshold is the event count beyond which compaction triggers.
// Histories at or below it are returned unchanged.
const compactThreshold = 5

const compactionPrompt = `Summarize the following conversation history.
Preserve: user goals, decisions made, tool results that later turns may
depend on (file paths, command output, computed values), and any open
questions. Omit pleasantries and dead ends. Respond with the summary text
only.`

// Compact replaces a long event log with a single summarizing event. It is
// strictly best-effort: short histories come back unchanged by value, and
// on any failure — provider construction, the summarization call, an empty
// summary — the original state is returned untouched. Usage and the system
// prompt survive compaction either way.
func (a *Agent) Compact(ctx context.Context, state thread.State) thread.State {
	if len(state.Events) <= compactThreshold {
		return state
	}

	provider, err := a.providers.Get(a.model)
	if err != nil {
		a.log.Errorf("compaction provider unavailable: %v", err)
		return state
	}

	var history strings.Builder
	for _, e := range state.Events {
		fmt.Fprintf(&history, "%s: %s\n", e.Intent, e.Content)
	}

	messages := []*types.Message{
		types.NewSystemMessage(compactionPrompt),
		types.NewUserMessage(history.String()),
	}

	reply, err := provider.Complete(ctx, messages)
	if err != nil {
		a.log.Errorf("compaction failed, keeping full history: %v", err)
		return state
	}
	summary := strings.TrimSpace(reply.Content)
	if summary == "" {
		a.log.Warnf("compaction produced an empty summary, keeping full history")
		return state
	}

	compacted := thread.State{
		Usage:        state.Usage,
		SystemPrompt: state.SystemPrompt,
	}
	return compacted.Append(thread.IntentConversationSummary, summary,
		thread.WithMetadata(map[string]interface{}{
			"type":   "system",
			"status": "compacted",
		}),
	)
}
