// Package tokenizer wraps tiktoken for client-side token counting. The
// engine uses it to estimate usage when a provider response carries no
// usage block, so the conversation's running totals never silently stall.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// encodingName is the BPE used by the GPT-4 family. Counts for other model
// families are approximate, which is acceptable for usage estimation.
const encodingName = "cl100k_base"

// perMessageOverhead approximates the per-message framing tokens the chat
// format adds around each message's content.
const perMessageOverhead = 4

// Tokenizer counts tokens with a fixed tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer. Fails only if the encoding data is unavailable.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the token count of a single text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens returns the approximate token count of a message
// list, including per-message chat framing overhead.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += t.CountTokens(msg.Content) + t.CountTokens(string(msg.Role)) + perMessageOverhead
	}
	return total
}

// EstimateUsage builds a usage record for a completion whose API response
// reported none: prompt tokens from the request messages, completion
// tokens from the reply text.
func (t *Tokenizer) EstimateUsage(request []*types.Message, replyContent string) types.TokenUsage {
	prompt := t.CountMessagesTokens(request)
	completion := t.CountTokens(replyContent)
	return types.TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}
