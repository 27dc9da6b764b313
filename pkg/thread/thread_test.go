package thread

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

func TestNew(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		s := New()
		assert.Empty(t, s.Events)
		assert.Equal(t, types.TokenUsage{}, s.Usage)
		assert.Equal(t, DefaultSystemPrompt, s.SystemMessage())
	})

	t.Run("CustomSystemPrompt", func(t *testing.T) {
		s := New("be terse")
		assert.Equal(t, "be terse", s.SystemMessage())
	})
}

func TestAppendIsPure(t *testing.T) {
	s := New()
	s1 := s.Append(IntentUserInput, "hello")

	// New state grew by one; original untouched.
	require.Len(t, s1.Events, 1)
	assert.Empty(t, s.Events)

	s2 := s1.Append(IntentLLMResponse, "hi there")
	require.Len(t, s2.Events, 2)
	assert.Len(t, s1.Events, 1)
	assert.Equal(t, "hello", s2.Events[0].Content)
	assert.Equal(t, "hi there", s2.Events[1].Content)
}

func TestAppendDoesNotAliasArgs(t *testing.T) {
	args := map[string]interface{}{"expression": "1 + 1"}
	s := New().Append("math_calculator", "1 + 1 = 2", WithArgs(args))

	args["expression"] = "mutated"
	assert.Equal(t, "1 + 1", s.Events[0].Args["expression"])

	// Mutating one state's event metadata must not leak into a copy.
	s2 := s.Append(IntentUserInput, "next")
	s2.Events[0].Metadata["injected"] = true
	_, ok := s.Events[0].Metadata["injected"]
	assert.False(t, ok)
}

func TestWithStatus(t *testing.T) {
	s := New().Append("git_status", "clean", WithStatus(StatusSuccess))
	e := s.Events[0]
	assert.Equal(t, "success", e.Metadata["status"])
	assert.Equal(t, "✅", e.Metadata["status_icon"])
	assert.Equal(t, "Success", e.Metadata["status_label"])
}

func TestAddUsageAccumulates(t *testing.T) {
	s := New().AddUsage(types.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	s = s.AddUsage(types.TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5})

	assert.Equal(t, 13, s.Usage.PromptTokens)
	assert.Equal(t, 7, s.Usage.CompletionTokens)
	assert.Equal(t, 20, s.Usage.TotalTokens)
}

func TestWithSystemPrompt(t *testing.T) {
	s := New("first")
	s2 := s.WithSystemPrompt("second")
	assert.Equal(t, "first", s.SystemMessage())
	assert.Equal(t, "second", s2.SystemMessage())
}

func TestRenderContext(t *testing.T) {
	t.Run("TaggedBlocks", func(t *testing.T) {
		s := New().
			Append(IntentUserInput, "what time is it").
			Append("pwd", "/home/user", WithStatus(StatusSuccess))

		out := s.RenderContext()
		assert.Contains(t, out, "<user_input>\nwhat time is it\n</user_input>")
		assert.Contains(t, out, "status=\"success\"")
		assert.Contains(t, out, "</pwd>")
	})

	t.Run("Deterministic", func(t *testing.T) {
		meta := map[string]interface{}{"b": "2", "a": "1", "c": "3"}
		s := New().Append(IntentUserInput, "x", WithMetadata(meta))
		first := s.RenderContext()
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, s.RenderContext())
		}
		// Attributes come out key-sorted.
		assert.Less(t, strings.Index(first, "a="), strings.Index(first, "b="))
		assert.Less(t, strings.Index(first, "b="), strings.Index(first, "c="))
	})

	t.Run("NilMetadataOmitted", func(t *testing.T) {
		s := New().Append(IntentUserInput, "x", WithMetadata(map[string]interface{}{
			"keep": "yes",
			"skip": nil,
		}))
		out := s.RenderContext()
		assert.Contains(t, out, "keep=\"yes\"")
		assert.NotContains(t, out, "skip")
	})
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, ParseStatus("success"))
	assert.Equal(t, StatusWaitingForFeedback, ParseStatus("waiting_for_feedback"))
	assert.Equal(t, StatusUnknown, ParseStatus("nonsense"))
	assert.Equal(t, "❓", ParseStatus("nonsense").Icon())
	assert.Equal(t, "Unknown", Status("whatever").Label())
}
