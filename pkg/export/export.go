// Package export serializes a conversation record into portable text
// formats. Export is a pure function of the state (plus the clock for the
// export timestamp); it is the one place in the engine where a bad input
// from the caller is a returned error rather than a recorded event, because
// an unsupported format is a programming mistake, not a runtime condition.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/enso-labs/gilfoyle-sub000/pkg/thread"
	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// Format identifies a supported export encoding.
type Format string

const (
	FormatMarkdown Format = "markdown" // FormatMarkdown renders a human-readable document.
	FormatJSON     Format = "json"     // FormatJSON renders a machine-parseable document.
	FormatText     Format = "txt"      // FormatText renders a plain transcript.
)

// timestampLayout is the export timestamp format shared by all encodings.
const timestampLayout = "2006-01-02 15:04:05"

// jsonDocument is the parse target of the JSON encoding.
type jsonDocument struct {
	ExportedAt    string           `json:"exportedAt"`
	TotalEvents   int              `json:"totalEvents"`
	TokenUsage    types.TokenUsage `json:"tokenUsage"`
	SystemMessage string           `json:"systemMessage"`
	Events        []thread.Event   `json:"events"`
}

// Export serializes the state in the given format. Unsupported formats
// return an error; everything else cannot fail.
func Export(state thread.State, format Format) (string, error) {
	now := time.Now()
	switch format {
	case FormatMarkdown:
		return exportMarkdown(state, now), nil
	case FormatJSON:
		return exportJSON(state, now)
	case FormatText:
		return exportText(state, now), nil
	default:
		return "", fmt.Errorf("unsupported export format: %q (want markdown, json, or txt)", format)
	}
}

func exportMarkdown(state thread.State, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Conversation Export\n\n")
	fmt.Fprintf(&b, "- Exported: %s\n", now.Format(timestampLayout))
	fmt.Fprintf(&b, "- Events: %d\n", len(state.Events))
	fmt.Fprintf(&b, "- Tokens: %d prompt / %d completion / %d total\n\n",
		state.Usage.PromptTokens, state.Usage.CompletionTokens, state.Usage.TotalTokens)

	for _, e := range state.Events {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", e.Intent, e.Content)
	}
	return b.String()
}

func exportJSON(state thread.State, now time.Time) (string, error) {
	events := state.Events
	if events == nil {
		events = []thread.Event{}
	}
	doc := jsonDocument{
		ExportedAt:    now.Format(timestampLayout),
		TotalEvents:   len(state.Events),
		TokenUsage:    state.Usage,
		SystemMessage: state.SystemMessage(),
		Events:        events,
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	return string(out), nil
}

func exportText(state thread.State, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation export — %s\n", now.Format(timestampLayout))
	fmt.Fprintf(&b, "Events: %d | Tokens: %d\n\n", len(state.Events), state.Usage.TotalTokens)

	for _, e := range state.Events {
		fmt.Fprintf(&b, "[%s] %s\n", e.Intent, e.Content)
	}
	return b.String()
}
