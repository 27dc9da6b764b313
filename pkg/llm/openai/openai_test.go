package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-labs/gilfoyle-sub000/pkg/types"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewProvider(t *testing.T) {
	t.Run("RequiresAPIKey", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := NewProvider("")
		assert.Error(t, err)
	})

	t.Run("Options", func(t *testing.T) {
		p, err := NewProvider("test-key", WithModel("gpt-4o-mini"), WithBaseURL("http://localhost:9999/v1"))
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", p.GetModel())
		assert.Equal(t, "http://localhost:9999/v1", p.modelInfo.Metadata["base_url"])
	})
}

func TestComplete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req["model"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hello back"}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16},
		})
	})

	p, err := NewProvider("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	msg, err := p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hello")})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAssistant, msg.Role)
	assert.Equal(t, "hello back", msg.Content)
	require.NotNil(t, msg.Usage)
	assert.Equal(t, 16, msg.Usage.TotalTokens)
}

func TestCompleteAPIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "bad key", "type": "invalid_request_error"},
		})
	})

	p, err := NewProvider("bad-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestCloneWithModel(t *testing.T) {
	p, err := NewProvider("test-key", WithModel("gpt-4o"))
	require.NoError(t, err)

	clone := p.CloneWithModel("gpt-4o-mini")
	assert.Equal(t, "gpt-4o-mini", clone.GetModel())
	assert.Equal(t, "gpt-4o", p.GetModel(), "original must be untouched")
	assert.Equal(t, "gpt-4o-mini", clone.GetModelInfo().Name)
}
