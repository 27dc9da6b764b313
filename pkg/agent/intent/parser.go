package intent

import (
	"encoding/json"
	"strings"
)

// ParseIntentList extracts a tool intent list from raw model output. The
// model is asked for a bare JSON array but routinely wraps it in code
// fences or explanatory prose, so extraction is layered:
//
//  1. trim whitespace
//  2. strip a leading ``` or ```json fence and its closing fence
//  3. take the first balanced [...] run, discarding surrounding text
//  4. decode as JSON
//
// Any failure at any layer returns the fixed none fallback; this function
// never reports an error to its caller.
func ParseIntentList(content string) []ToolIntent {
	text := strings.TrimSpace(content)
	if text == "" {
		return NoneFallback()
	}

	text = stripCodeFence(text)

	if arr, ok := firstBalancedArray(text); ok {
		text = arr
	}

	var intents []ToolIntent
	if err := json.Unmarshal([]byte(text), &intents); err != nil {
		return NoneFallback()
	}
	if intents == nil {
		return NoneFallback()
	}

	// Normalize nil args so downstream comparisons and event recording
	// never see a nil map.
	for i := range intents {
		if intents[i].Args == nil {
			intents[i].Args = map[string]interface{}{}
		}
	}
	return intents
}

// stripCodeFence removes a leading ``` or ```json fence line and the
// trailing closing fence, if present.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	rest := text
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		// A fence with no newline carries no body.
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(rest, "```json"), "```"))
	}

	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

// firstBalancedArray returns the first balanced [...] run in text. Bracket
// depth is tracked outside JSON strings so a "]" inside a quoted value
// cannot close the array early.
func firstBalancedArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
