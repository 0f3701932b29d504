// Package callbacks 提供 Eino Callback 处理器实现
package callbacks

import (
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/prometheus/client_golang/prometheus"

	"arch-advisor/internal/eino/config"
	"arch-advisor/pkg/logger"
)

// Factory Callback 工厂
type Factory struct {
	cfg      *config.CallbacksConfig
	logger   logger.Logger
	registry *prometheus.Registry
}

// NewFactory 创建 Callback 工厂
func NewFactory(cfg *config.CallbacksConfig, log logger.Logger) *Factory {
	return &Factory{
		cfg:      cfg,
		logger:   log,
		registry: prometheus.NewRegistry(),
	}
}

// Registry 返回指标注册表，供 /metrics 暴露
func (f *Factory) Registry() *prometheus.Registry {
	return f.registry
}

// CreateHandlers 创建所有启用的 Callback 处理器
func (f *Factory) CreateHandlers() ([]callbacks.Handler, error) {
	handlers := make([]callbacks.Handler, 0, 2)

	// 日志回调
	if f.cfg.Logging.Enabled {
		handlers = append(handlers, NewLoggingHandler(f.logger, &f.cfg.Logging))
	}

	// 指标回调
	if f.cfg.Metrics.Enabled {
		handler, err := NewMetricsHandler(&f.cfg.Metrics, f.registry)
		if err != nil {
			return nil, fmt.Errorf("create metrics handler: %w", err)
		}
		handlers = append(handlers, handler)
	}

	return handlers, nil
}
