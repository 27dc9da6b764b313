package intent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

// fakeProvider returns a fixed reply (or error) and records the messages
// it was called with.
type fakeProvider struct {
	reply    string
	err      error
	calls    int
	lastMsgs []*types.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []*types.Message) (*types.Message, error) {
	f.calls++
	f.lastMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return types.NewAssistantMessage(f.reply), nil
}

func (f *fakeProvider) GetModel() string               { return "fake-model" }
func (f *fakeProvider) GetModelInfo() *types.ModelInfo { return &types.ModelInfo{Name: "fake-model"} }

func testCatalog() []Descriptor {
	return []Descriptor{
		{
			Name:        "math_calculator",
			Description: "Evaluate a math expression",
			Args:        map[string]string{"expression": "the expression to evaluate"},
			Required:    []string{"expression"},
		},
		{
			Name:        "web_search",
			Description: "Search the web",
			Args:        map[string]string{"query": "search terms"},
			Required:    []string{"query"},
		},
	}
}

func TestClassify(t *testing.T) {
	provider := &fakeProvider{
		reply: `[{"intent": "math_calculator", "args": {"expression": "15 * 23"}}]`,
	}

	got := Classify(context.Background(), provider, "calculate 15 * 23", testCatalog())

	require.Len(t, got, 1)
	assert.Equal(t, "math_calculator", got[0].Intent)
	assert.Equal(t, "15 * 23", got[0].Args["expression"])

	// Exactly one model call, with the catalog embedded in the system prompt.
	assert.Equal(t, 1, provider.calls)
	require.Len(t, provider.lastMsgs, 2)
	assert.Equal(t, types.RoleSystem, provider.lastMsgs[0].Role)
	assert.Contains(t, provider.lastMsgs[0].Content, "math_calculator")
	assert.Contains(t, provider.lastMsgs[0].Content, "expression (required)")
	assert.Contains(t, provider.lastMsgs[0].Content, "<examples>")
	assert.Equal(t, "calculate 15 * 23", provider.lastMsgs[1].Content)
}

func TestClassifyEmptyQuery(t *testing.T) {
	provider := &fakeProvider{reply: `[]`}
	got := Classify(context.Background(), provider, "   ", testCatalog())
	assert.Equal(t, NoneFallback(), got)
	assert.Equal(t, 0, provider.calls, "empty query must not spend a model call")
}

func TestClassifyProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("connection refused")}
	got := Classify(context.Background(), provider, "search for cats", testCatalog())
	assert.Equal(t, NoneFallback(), got)
}

func TestClassifyGarbageReply(t *testing.T) {
	provider := &fakeProvider{reply: "I refuse to answer in JSON today."}
	got := Classify(context.Background(), provider, "search for cats", testCatalog())
	assert.Equal(t, NoneFallback(), got)
}
