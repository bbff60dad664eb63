package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/pkg/aiinterface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successBody(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
			},
		},
		"usageMetadata": map[string]any{
			"promptTokenCount":     10,
			"candidatesTokenCount": 20,
			"totalTokenCount":      30,
		},
	}
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(&aiinterface.ClientConfig{
		Endpoint: endpoint,
		APIKey:   "test-key",
		Model:    "gemini-pro",
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(&aiinterface.ClientConfig{Model: "gemini-pro"})
	require.Error(t, err)

	var clientErr *aiinterface.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, aiinterface.ErrorTypeInvalidConfig, clientErr.Type)
}

func TestInvokeBuildsGenerateContentRequest(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 鉴权走 URL 查询参数，模型名拼接在路径里
		assert.Equal(t, "/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(successBody("resposta"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Invoke(context.Background(), &aiinterface.ChatRequest{
		SystemPrompt: "you are helpful",
		UserPrompt:   "hello",
		ContextJSON:  `{"framework":"LGPD"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "resposta", resp.Content)
	assert.Equal(t, 10, resp.Usage.PromptTokens)
	assert.Equal(t, 20, resp.Usage.CompletionTokens)
	assert.Equal(t, 30, resp.Usage.TotalTokens)

	// 单段文本：系统提示词 + 上下文 + 用户输入
	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	text := captured.Contents[0].Parts[0].Text
	assert.Contains(t, text, "you are helpful")
	assert.Contains(t, text, "Context:\n{\"framework\":\"LGPD\"}")
	assert.Contains(t, text, "hello")

	assert.InDelta(t, aiinterface.DefaultTemperature, captured.GenerationConfig.Temperature, 0.001)
	assert.Equal(t, aiinterface.DefaultMaxTokens, captured.GenerationConfig.MaxOutputTokens)
}

func TestInvokeEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Invoke(context.Background(), &aiinterface.ChatRequest{SystemPrompt: "s", UserPrompt: "u"})
	require.Error(t, err)

	var clientErr *aiinterface.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, aiinterface.ErrorTypeEmptyResponse, clientErr.Type)
}

func TestInvokeUpstreamErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Invoke(context.Background(), &aiinterface.ChatRequest{SystemPrompt: "s", UserPrompt: "u"})
	require.Error(t, err)

	var clientErr *aiinterface.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, aiinterface.ErrorTypeUpstream, clientErr.Type)
	assert.Contains(t, clientErr.Message, "429")
	assert.Contains(t, clientErr.Message, "quota exceeded")
}

func TestInvokeNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Invoke(context.Background(), &aiinterface.ChatRequest{SystemPrompt: "s", UserPrompt: "u"})
	require.Error(t, err)

	var clientErr *aiinterface.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, aiinterface.ErrorTypeNetwork, clientErr.Type)
}

func TestInvokeMissingUsageDefaultsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Invoke(context.Background(), &aiinterface.ChatRequest{SystemPrompt: "s", UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, aiinterface.Usage{}, resp.Usage)
}
