package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arch-advisor/internal/eino/config"
	"arch-advisor/pkg/logger"
)

const testAPIKey = "sk-test-secret-key"

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "{\"is_sufficient\": true}"}
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

func newTestModel(t *testing.T, handler http.HandlerFunc) *RemoteChatModel {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m, err := NewRemoteChatModel(&config.ChatModelConfig{
		Provider: "openai",
		APIKey:   testAPIKey,
		BaseURL:  srv.URL + "/v1/",
		Model:    "gpt-4o-mini",
		Timeout:  5,
	}, logger.Discard())
	require.NoError(t, err)
	return m
}

func TestRemoteChatModel_Generate(t *testing.T) {
	var captured map[string]any
	var authHeader string
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("system prompt"),
		schema.UserMessage("Requirements:\n{}"),
	})
	require.NoError(t, err)

	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, `{"is_sufficient": true}`, msg.Content)
	require.NotNil(t, msg.ResponseMeta)
	assert.Equal(t, "stop", msg.ResponseMeta.FinishReason)
	assert.Equal(t, 17, msg.ResponseMeta.Usage.TotalTokens)

	assert.Equal(t, "Bearer "+testAPIKey, authHeader)
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestRemoteChatModel_GenerateModelOverride(t *testing.T) {
	var captured map[string]any
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	_, err := m.Generate(context.Background(),
		[]*schema.Message{schema.UserMessage("hi")},
		model.WithModel("gpt-4o"), model.WithTemperature(0.2))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", captured["model"])
	assert.InDelta(t, 0.2, captured["temperature"], 0.001)
}

func TestRemoteChatModel_UpstreamErrorNotRetried(t *testing.T) {
	var calls int32
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
	})

	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestRemoteChatModel_NoChoices(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "model": "gpt-4o-mini", "choices": []}`))
	})

	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestRemoteChatModel_Stream(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("stream must not reach the server")
	})

	_, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestNewRemoteChatModel_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.ChatModelConfig
		log  logger.Logger
	}{
		{name: "nil config", cfg: nil, log: logger.Discard()},
		{name: "nil logger", cfg: &config.ChatModelConfig{Provider: "openai", APIKey: "k", Model: "m"}, log: nil},
		{name: "missing api key", cfg: &config.ChatModelConfig{Provider: "openai", Model: "m"}, log: logger.Discard()},
		{name: "negative timeout", cfg: &config.ChatModelConfig{Provider: "openai", APIKey: "k", Model: "m", Timeout: -1}, log: logger.Discard()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRemoteChatModel(tt.cfg, tt.log)
			assert.Error(t, err)
		})
	}
}
