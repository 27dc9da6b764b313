// Package types defines the shared value types exchanged between the agent
// engine and its LLM providers: chat messages, roles, token usage, and model
// metadata. Everything here is a plain value with no behavior beyond
// construction helpers.
package types

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"    // RoleSystem marks the system prompt message.
	RoleUser      Role = "user"      // RoleUser marks end-user (or tool result) content.
	RoleAssistant Role = "assistant" // RoleAssistant marks model-generated content.
)

// Message is a single chat message sent to or received from an LLM provider.
type Message struct {
	// Role indicates who authored the message.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Usage carries the provider-reported token usage for the API call that
	// produced this message. Only populated on assistant messages returned
	// by a provider; nil when the provider did not report usage.
	Usage *TokenUsage `json:"usage,omitempty"`
}

// TokenUsage contains token usage statistics from an LLM API call.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the input/prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the generated completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens used (prompt + completion).
	TotalTokens int `json:"total_tokens"`
}

// Add returns the element-wise sum of u and other. Usage accumulates across
// a conversation's lifetime, so totals only ever grow.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// ModelInfo describes an LLM model's identity and capabilities.
type ModelInfo struct {
	// Provider is the provider family name (e.g., "openai").
	Provider string

	// Name is the model identifier (e.g., "gpt-4o").
	Name string

	// MaxTokens is the model's context window size, if known.
	MaxTokens int

	// Metadata holds provider-specific extras such as a custom base URL.
	Metadata map[string]interface{}
}

// NewSystemMessage creates a system role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant role message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}
