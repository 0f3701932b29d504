package remote

import (
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"arch-advisor/internal/eino/config"
	"arch-advisor/pkg/logger"
)

// NewRemoteChatModel 创建新的远程对话模型
// 客户端在进程启动时创建一次，之后被所有请求共享
func NewRemoteChatModel(cfg *config.ChatModelConfig, log logger.Logger) (*RemoteChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("chat model config is required")
	}

	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chat model config: %w", err)
	}

	// SDK 默认会重试，这里关闭
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}

	client := openai.NewClient(opts...)

	log.Info("远程对话模型初始化成功",
		"model", cfg.Model,
		"base_url", cfg.BaseURL)

	return &RemoteChatModel{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}
