package configs

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	einoconfig "arch-advisor/internal/eino/config"
)

// configPaths 配置文件的搜索路径，按顺序取第一个存在的文件
var configPaths = []string{
	"configs/config.yaml",
	"config.yaml",
	"/etc/arch-advisor/config.yaml",
}

// Load 加载并验证应用程序配置。
// 它按照以下优先级顺序加载配置：
// 1. 默认配置
// 2. 配置文件（config.yaml，支持多个搜索路径）
// 3. 环境变量（覆盖配置文件中的值，.env 文件中的值同样生效）
//
// 参数 ctx: 上下文对象。
// 返回加载并验证后的 Config 指针，如果出错则返回 error。
func Load(ctx context.Context) (*Config, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	config := DefaultConfig()

	for _, path := range configPaths {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, err
			}
			break
		}
	}

	loadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig 创建并返回一个包含默认值的 Config 对象。
// 写超时默认不限制，模型调用只受传输层默认超时约束。
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                    "0.0.0.0",
			Port:                    8000,
			ReadTimeout:             30 * time.Second,
			WriteTimeout:            0,
			IdleTimeout:             60 * time.Second,
			GracefulShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
			Format: "text",
		},
		Eino: *einoconfig.DefaultEinoConfig(),
	}
}

// loadFromEnv 从环境变量中读取配置并覆盖 Config 中的值。
// 支持 OPENAI_API_KEY, OPENAI_BASE_URL, ARCH_ADVISOR_PORT, ARCH_ADVISOR_MODE, ARCH_ADVISOR_MODEL。
func loadFromEnv(config *Config) {
	if port := os.Getenv("ARCH_ADVISOR_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			config.Server.Port = p
		}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Eino.ChatModel.APIKey = apiKey
	}

	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.Eino.ChatModel.BaseURL = baseURL
	}

	if mode := os.Getenv("ARCH_ADVISOR_MODE"); mode != "" {
		config.Eino.Analysis.Mode = mode
	}

	if model := os.Getenv("ARCH_ADVISOR_MODEL"); model != "" {
		config.Eino.ChatModel.Model = model
	}
}
