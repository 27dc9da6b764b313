package intent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/enso-labs/gilfoyle-sub000/pkg/llm"
	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

const classifierInstructions = `You route user queries to tools. Given the
user's query and the tool catalog below, respond with ONLY a JSON array of
tool intents, in the order they should run:

[{"intent": "<tool_name>", "args": {...}}]

Rules:
- Use only tools from the catalog.
- Include every required argument.
- If no tool applies, respond with [{"intent": "none", "args": {}}].
- Do not add prose, explanations, or code fences.`

const classifierExamples = `<examples>
Query: calculate 15 * 23
[{"intent": "math_calculator", "args": {"expression": "15 * 23"}}]

Query: what's in main.go, and is the repo clean?
[{"intent": "read_file", "args": {"filepath": "main.go"}}, {"intent": "git_status", "args": {}}]

Query: tell me a joke
[{"intent": "none", "args": {}}]
</examples>`

// Classify turns a query plus a tool catalog into an ordered intent list
// using exactly one model call. All failure modes — provider errors,
// malformed output, non-array results — collapse to the none fallback;
// classification never raises.
func Classify(ctx context.Context, provider llm.Provider, query string, catalog []Descriptor) []ToolIntent {
	if strings.TrimSpace(query) == "" {
		return NoneFallback()
	}

	messages := []*types.Message{
		types.NewSystemMessage(buildClassifierPrompt(catalog)),
		types.NewUserMessage(query),
	}

	reply, err := provider.Complete(ctx, messages)
	if err != nil {
		return NoneFallback()
	}
	return ParseIntentList(reply.Content)
}

// buildClassifierPrompt assembles the classification system prompt:
// instructions, the full tool catalog, and worked examples.
func buildClassifierPrompt(catalog []Descriptor) string {
	var b strings.Builder
	b.WriteString(classifierInstructions)
	b.WriteString("\n\n<tool_catalog>\n")
	for _, d := range catalog {
		b.WriteString(formatDescriptor(d))
	}
	b.WriteString("</tool_catalog>\n\n")
	b.WriteString(classifierExamples)
	return b.String()
}

func formatDescriptor(d Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s: %s\n", d.Name, d.Description)

	required := make(map[string]bool, len(d.Required))
	for _, r := range d.Required {
		required[r] = true
	}

	names := make([]string, 0, len(d.Args))
	for name := range d.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		marker := "optional"
		if required[name] {
			marker = "required"
		}
		fmt.Fprintf(&b, "    %s (%s): %s\n", name, marker, d.Args[name])
	}
	return b.String()
}
