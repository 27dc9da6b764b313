// Package thread holds the conversation record: an append-only sequence of
// events plus cumulative token usage and the system prompt. Every operation
// is pure — it takes a State by value and returns a new State, never
// mutating the caller's copy. The record is the single source of truth for
// what happened in a conversation; model calls, tool results, and errors all
// land here as ordinary events.
package thread

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// Intent names for plain conversational events. Tool events use the tool's
// own tag as the intent name.
const (
	IntentUserInput           = "user_input"
	IntentLLMResponse         = "llm_response"
	IntentLLMError            = "llm_error"
	IntentConversationSummary = "conversation_summary"
)

// DefaultSystemPrompt is used when a State was created without an explicit
// system prompt.
const DefaultSystemPrompt = "You are Gilfoyle, a terminal assistant. " +
	"You answer precisely, use the conversation history for context, and " +
	"never invent tool results that are not present in the history."

// Event is one immutable entry in the conversation record.
type Event struct {
	// Intent names what kind of entry this is: a conversational intent
	// (user_input, llm_response, llm_error, conversation_summary) or a
	// tool tag (math_calculator, read_file, ...).
	Intent string `json:"intent"`

	// Content is the entry's text: the user's query, a tool's output, the
	// model's reply, or an error message.
	Content string `json:"content"`

	// Args mirrors the validated tool arguments for tool events.
	// Conversational events carry no args.
	Args map[string]interface{} `json:"args,omitempty"`

	// Metadata holds structured annotations such as type, status, and the
	// model identifier. Rendered into the model-visible context, so keys
	// and values are part of the engine's stable contract.
	Metadata map[string]interface{} `json:"metadata"`
}

// State is the conversation record. It is owned by the caller and treated
// as a value: operations return a new State and leave the receiver intact.
type State struct {
	// Usage is the cumulative token usage across all model calls in this
	// conversation. TotalTokens never decreases.
	Usage types.TokenUsage `json:"usage"`

	// SystemPrompt overrides DefaultSystemPrompt when non-empty. It only
	// changes through WithSystemPrompt.
	SystemPrompt string `json:"systemMessage,omitempty"`

	// Events is the append-only, occurrence-ordered log.
	Events []Event `json:"events"`
}

// New creates an empty conversation record. An optional system prompt may
// be supplied; when omitted the record falls back to DefaultSystemPrompt.
func New(systemPrompt ...string) State {
	s := State{}
	if len(systemPrompt) > 0 && systemPrompt[0] != "" {
		s.SystemPrompt = systemPrompt[0]
	}
	return s
}

// AppendOption customizes the event produced by Append.
type AppendOption func(*Event)

// WithArgs attaches validated tool arguments to the event. The map is
// cloned so later caller mutation cannot reach into the record.
func WithArgs(args map[string]interface{}) AppendOption {
	return func(e *Event) {
		if len(args) > 0 {
			e.Args = maps.Clone(args)
		}
	}
}

// WithMetadata merges the given metadata into the event's metadata map.
func WithMetadata(metadata map[string]interface{}) AppendOption {
	return func(e *Event) {
		for k, v := range metadata {
			e.Metadata[k] = v
		}
	}
}

// WithStatus sets the event's status metadata along with the status's fixed
// icon and label, so renderers never re-derive them.
func WithStatus(status Status) AppendOption {
	return func(e *Event) {
		e.Metadata["status"] = string(status)
		e.Metadata["status_icon"] = status.Icon()
		e.Metadata["status_label"] = status.Label()
	}
}

// Append returns a new State whose event log is the receiver's log plus one
// new event. The receiver is unchanged.
func (s State) Append(intent, content string, opts ...AppendOption) State {
	e := Event{
		Intent:   intent,
		Content:  content,
		Metadata: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(&e)
	}

	next := s.clone()
	next.Events = append(next.Events, e)
	return next
}

// WithSystemPrompt returns a copy of the state with the system prompt
// replaced. This is the only operation that changes the system prompt.
func (s State) WithSystemPrompt(prompt string) State {
	next := s.clone()
	next.SystemPrompt = prompt
	return next
}

// AddUsage returns a copy of the state with the given usage added onto the
// running totals. Totals accumulate; they are never replaced.
func (s State) AddUsage(usage types.TokenUsage) State {
	next := s.clone()
	next.Usage = next.Usage.Add(usage)
	return next
}

// SystemMessage returns the effective system prompt, falling back to
// DefaultSystemPrompt when none was set.
func (s State) SystemMessage() string {
	if s.SystemPrompt != "" {
		return s.SystemPrompt
	}
	return DefaultSystemPrompt
}

// RenderContext serializes the event log into the tagged form handed to the
// model as conversation context: one block per event, the intent as the tag
// name, every non-nil metadata field as an attribute (keys sorted for
// determinism), and the event content as the body. The exact output format
// is a contract — the model's ability to reference prior turns depends on
// it being stable.
func (s State) RenderContext() string {
	var b strings.Builder
	for _, e := range s.Events {
		b.WriteString("<")
		b.WriteString(e.Intent)

		keys := make([]string, 0, len(e.Metadata))
		for k, v := range e.Metadata {
			if v == nil {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%q", k, fmt.Sprintf("%v", e.Metadata[k]))
		}

		b.WriteString(">\n")
		b.WriteString(e.Content)
		b.WriteString("\n</")
		b.WriteString(e.Intent)
		b.WriteString(">\n")
	}
	return b.String()
}

// clone produces a deep-enough copy for copy-on-write semantics: the event
// slice is copied, and each event's maps are cloned so no append-path
// mutation can alias the original.
func (s State) clone() State {
	next := State{
		Usage:        s.Usage,
		SystemPrompt: s.SystemPrompt,
	}
	if s.Events != nil {
		next.Events = make([]Event, len(s.Events))
		for i, e := range s.Events {
			next.Events[i] = e.clone()
		}
	}
	return next
}

func (e Event) clone() Event {
	c := e
	if e.Args != nil {
		c.Args = maps.Clone(e.Args)
	}
	if e.Metadata != nil {
		c.Metadata = maps.Clone(e.Metadata)
	}
	return c
}
