package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

func TestCountTokens(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Greater(t, tok.CountTokens("hello world"), 0)
	assert.Greater(t, tok.CountTokens("a much longer sentence with many more words in it"),
		tok.CountTokens("short"))
}

func TestEstimateUsage(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)

	request := []*types.Message{
		types.NewSystemMessage("you are terse"),
		types.NewUserMessage("what is 2+2"),
	}
	usage := tok.EstimateUsage(request, "4")

	assert.Greater(t, usage.PromptTokens, 0)
	assert.Greater(t, usage.CompletionTokens, 0)
	assert.Equal(t, usage.PromptTokens+usage.CompletionTokens, usage.TotalTokens)
}
