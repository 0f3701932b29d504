package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"arch-advisor/internal/eino/config"
	"arch-advisor/pkg/logger"
)

// ErrStreamingUnsupported 不支持流式输出
var ErrStreamingUnsupported = errors.New("streaming is not supported by the remote chat model")

// ErrNoChoices 上游响应中没有候选结果
var ErrNoChoices = errors.New("no choices in chat completion response")

// RemoteChatModel 远程对话模型实现
// 基于OpenAI Format API，每次 Generate 发起一次 Chat Completion 请求并要求返回 JSON 对象
type RemoteChatModel struct {
	client openai.Client
	config *config.ChatModelConfig
	logger logger.Logger
}

var _ model.BaseChatModel = (*RemoteChatModel)(nil)

// Generate 发起一次对话补全请求
// 不做本地重试，上游错误原样向上返回
func (m *RemoteChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	startTime := time.Now()

	options := model.GetCommonOptions(&model.Options{
		Model:       &m.config.Model,
		Temperature: m.config.Temperature,
	}, opts...)

	messages, err := toChatMessages(input)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(*options.Model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(float64(*options.Temperature))
	}

	m.logger.DebugContext(ctx, "开始调用对话模型",
		"model", *options.Model,
		"message_count", len(messages))

	response, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		m.logger.ErrorContext(ctx, "对话模型调用失败",
			"model", *options.Model,
			"error", err,
			"processing_time_ms", time.Since(startTime).Milliseconds())
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := response.Choices[0]
	m.logger.InfoContext(ctx, "对话模型调用成功",
		"model_used", response.Model,
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason,
		"processing_time_ms", time.Since(startTime).Milliseconds())

	return &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(choice.FinishReason),
			Usage: &schema.TokenUsage{
				PromptTokens:     int(response.Usage.PromptTokens),
				CompletionTokens: int(response.Usage.CompletionTokens),
				TotalTokens:      int(response.Usage.TotalTokens),
			},
		},
	}, nil
}

// Stream 不支持流式输出
func (m *RemoteChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamingUnsupported
}

// toChatMessages 将 Eino 消息转换为 OpenAI 请求消息
func toChatMessages(input []*schema.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for i, msg := range input {
		if msg == nil {
			return nil, fmt.Errorf("message at index %d is nil", i)
		}
		switch msg.Role {
		case schema.System:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case schema.User:
			messages = append(messages, openai.UserMessage(msg.Content))
		case schema.Assistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("unsupported message role at index %d: %s", i, msg.Role)
		}
	}
	return messages, nil
}
