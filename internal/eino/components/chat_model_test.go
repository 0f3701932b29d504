package components

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arch-advisor/internal/eino/config"
	"arch-advisor/internal/eino/prompts"
	"arch-advisor/pkg/logger"
)

func TestNewChatModel(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.ChatModelConfig
		wantErr bool
	}{
		{name: "openai", cfg: &config.ChatModelConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"}},
		{name: "fake", cfg: &config.ChatModelConfig{Provider: "fake", Model: "fake"}},
		{name: "openai without key", cfg: &config.ChatModelConfig{Provider: "openai", Model: "gpt-4o-mini"}, wantErr: true},
		{name: "unknown provider", cfg: &config.ChatModelConfig{Provider: "ollama", Model: "llama3"}, wantErr: true},
		{name: "nil config", cfg: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewChatModel(context.Background(), tt.cfg, logger.Discard())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestFakeChatModel_DefaultResponder(t *testing.T) {
	m := NewFakeChatModel(nil)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage(prompts.Validation),
		schema.UserMessage(`Requirements:
{"user_count": "10k daily users", "workload_type": "read heavy", "ai_ml_usage": "none"}`),
	})
	require.NoError(t, err)

	var validation map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &validation))
	assert.Equal(t, true, validation["is_sufficient"])

	msg, err = m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage(prompts.Architect),
		schema.UserMessage("Requirements:\n{}"),
	})
	require.NoError(t, err)

	var design map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &design))
	assert.Contains(t, design, "technology_mapping")
	assert.Contains(t, design, "diagram_mermaid")
	assert.Equal(t, int64(2), m.Calls())
}

func TestFakeChatModel_BlankRequirements(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty object", content: "Requirements:\n{}"},
		{name: "blank fields", content: `Requirements:
{"user_count": "", "workload_type": "  ", "ai_ml_usage": "none"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFakeChatModel(nil)
			msg, err := m.Generate(context.Background(), []*schema.Message{
				schema.SystemMessage(prompts.Validation),
				schema.UserMessage(tt.content),
			})
			require.NoError(t, err)

			var validation map[string]any
			require.NoError(t, json.Unmarshal([]byte(msg.Content), &validation))
			assert.Equal(t, false, validation["is_sufficient"])

			questions, ok := validation["clarifying_questions"].([]any)
			require.True(t, ok)
			assert.NotEmpty(t, questions)
		})
	}
}

func TestFakeChatModel_CustomResponder(t *testing.T) {
	var gotSystem, gotUser string
	m := NewFakeChatModel(func(ctx context.Context, systemPrompt, userContent string) (string, error) {
		gotSystem, gotUser = systemPrompt, userContent
		return `{"ok": true}`, nil
	})

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("user"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, msg.Content)
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, "sys", gotSystem)
	assert.Equal(t, "user", gotUser)

	_, err = m.Stream(context.Background(), nil)
	assert.Error(t, err)
}
