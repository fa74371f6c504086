package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-planner/pkg/planner"
)

func TestOpenAIGenerateContent(t *testing.T) {
	var gotRequest map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		content := `{"titleIdeas":["One","Two","Three","Four","Five"],"description":"Caption","hashtags":["fyp"],"pinnedComment":"Follow!"}`
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	defer server.Close()

	gen, err := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	assert.Equal(t, "openai", gen.Name())

	out, err := gen.GenerateContent(context.Background(), planner.ContentItem{Title: "How to Juggle", Platform: planner.PlatformTikTok})
	require.NoError(t, err)
	assert.Len(t, out.TitleIdeas, 5)
	assert.Equal(t, []string{"#fyp"}, out.Hashtags)
	assert.Equal(t, "Follow!", out.PinnedComment)

	assert.Equal(t, "gpt-4o-mini", gotRequest["model"])
	format, _ := gotRequest["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer server.Close()

	gen, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = gen.GenerateContent(context.Background(), planner.ContentItem{Title: "x", Platform: planner.PlatformYouTube})
	require.Error(t, err)
	assert.NotErrorIs(t, err, planner.ErrMalformedResponse)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{})
	assert.Error(t, err)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
