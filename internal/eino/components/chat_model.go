// Package components 提供 Eino 组件的工厂函数
package components

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"

	"arch-advisor/internal/eino/config"
	"arch-advisor/internal/infrastructure/llm/remote"
	"arch-advisor/pkg/logger"
)

// NewChatModel 根据配置创建并返回一个 Eino ChatModel 实例。
// 支持 openai（OpenAI 兼容接口）与 fake（离线确定性输出）两种提供商。
// 参数 ctx: 上下文对象。
// 参数 cfg: 对话模型配置，包含提供商类型、API 密钥、模型名称等。
// 返回: 初始化后的 ChatModel 实例，如果提供商不支持或初始化失败则返回错误。
func NewChatModel(ctx context.Context, cfg *config.ChatModelConfig, log logger.Logger) (model.BaseChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("chat model config is required")
	}

	switch cfg.Provider {
	case "openai":
		chatModel, err := remote.NewRemoteChatModel(cfg, log)
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	case "fake":
		log.WarnContext(ctx, "使用离线 fake 对话模型，输出为固定内容")
		return NewFakeChatModel(nil), nil
	default:
		return nil, fmt.Errorf("unsupported chat model provider: %s", cfg.Provider)
	}
}
