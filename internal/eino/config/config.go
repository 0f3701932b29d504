// Package config 定义 Eino 框架的配置结构
package config

import "fmt"

// 分析流程的执行模式
const (
	// ModeParallel 校验与设计两次模型调用并发执行
	ModeParallel = "parallel"
	// ModeSequential 先校验后设计，依次执行
	ModeSequential = "sequential"
)

// EinoConfig Eino 框架的总配置结构。
// 包含对话模型、分析流程以及回调系统的配置。
type EinoConfig struct {
	ChatModel ChatModelConfig `yaml:"chat_model"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Callbacks CallbacksConfig `yaml:"callbacks"`
}

// ChatModelConfig 定义对话模型（Chat Completion）服务的配置。
// 默认使用 OpenAI 兼容接口，并强制 JSON 对象输出。
type ChatModelConfig struct {
	Provider    string   `yaml:"provider"` // openai, fake
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	Timeout     int      `yaml:"timeout"` // 秒，0 表示使用传输层默认值
	Temperature *float32 `yaml:"temperature"`
}

// AnalysisConfig 定义架构分析流程的配置。
type AnalysisConfig struct {
	Mode string `yaml:"mode"` // parallel, sequential
}

// CallbacksConfig 定义 Eino 框架的回调系统配置。
type CallbacksConfig struct {
	Logging LoggingCallbackConfig `yaml:"logging"`
	Metrics MetricsCallbackConfig `yaml:"metrics"`
}

// LoggingCallbackConfig 定义日志回调的配置。
type LoggingCallbackConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// MetricsCallbackConfig 定义指标监控回调的配置。
type MetricsCallbackConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Namespace string `yaml:"namespace"`
}

// DefaultEinoConfig 创建并返回一个包含默认值的 EinoConfig 对象。
// 默认使用 OpenAI gpt-4o-mini，并发执行两次模型调用。
func DefaultEinoConfig() *EinoConfig {
	return &EinoConfig{
		ChatModel: ChatModelConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Analysis: AnalysisConfig{
			Mode: ModeParallel,
		},
		Callbacks: CallbacksConfig{
			Logging: LoggingCallbackConfig{
				Enabled: true,
				Level:   "info",
			},
			Metrics: MetricsCallbackConfig{
				Enabled:   true,
				Endpoint:  "/metrics",
				Namespace: "arch_advisor",
			},
		},
	}
}

// Validate 检查 EinoConfig 的有效性。
func (c *EinoConfig) Validate() error {
	if err := c.ChatModel.Validate(); err != nil {
		return fmt.Errorf("chat model config validation failed: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config validation failed: %w", err)
	}
	if c.Callbacks.Metrics.Enabled && c.Callbacks.Metrics.Endpoint == "" {
		return fmt.Errorf("metrics endpoint is required when metrics are enabled")
	}
	return nil
}

// Validate 检查 ChatModelConfig 的有效性。
// openai 提供商必须配置 API 密钥。
func (c *ChatModelConfig) Validate() error {
	switch c.Provider {
	case "openai":
		if c.APIKey == "" {
			return fmt.Errorf("api key is required for provider openai (set OPENAI_API_KEY)")
		}
	case "fake":
	default:
		return fmt.Errorf("unsupported chat model provider: %s", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("chat model name is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return nil
}

// Validate 检查 AnalysisConfig 的有效性。
func (c *AnalysisConfig) Validate() error {
	switch c.Mode {
	case ModeParallel, ModeSequential:
		return nil
	default:
		return fmt.Errorf("unsupported analysis mode: %s", c.Mode)
	}
}
