// Package nodes 提供 Eino Graph 中使用的 Lambda 节点实现
package nodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var (
	// ErrEmptyCompletion 模型返回空内容
	ErrEmptyCompletion = errors.New("model returned empty completion")
	// ErrInvalidJSON 模型返回内容不是 JSON 对象
	ErrInvalidJSON = errors.New("model returned invalid JSON object")
)

// JSONInvoker 以"系统提示词 + 用户内容"调用对话模型并解析 JSON 对象输出
type JSONInvoker struct {
	chatModel model.BaseChatModel
}

// NewJSONInvoker 创建 JSON 调用器
func NewJSONInvoker(chatModel model.BaseChatModel) *JSONInvoker {
	return &JSONInvoker{chatModel: chatModel}
}

// InvokeJSON 发起一次模型调用，不重试
func (i *JSONInvoker) InvokeJSON(ctx context.Context, systemPrompt, userContent string) (map[string]any, error) {
	msg, err := i.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userContent),
	})
	if err != nil {
		return nil, err
	}

	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(msg.Content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	// "null" 可以解码但不是对象
	if out == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidJSON)
	}

	return out, nil
}
