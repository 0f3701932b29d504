package callbacks

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"

	"arch-advisor/internal/eino/config"
	"arch-advisor/pkg/logger"
)

// LoggingHandler 实现基于日志的 Callback 处理器。
// 它会在节点开始、结束或出错时记录日志，错误始终以 Error 级别输出。
type LoggingHandler struct {
	logger logger.Logger
	cfg    *config.LoggingCallbackConfig
	level  slog.Level
}

// NewLoggingHandler 创建一个新的日志回调处理器。
// 参数 log: 底层日志记录器。
// 参数 cfg: 日志回调配置，Level 决定开始/结束日志的级别。
// 返回: callbacks.Handler 接口实现。
func NewLoggingHandler(log logger.Logger, cfg *config.LoggingCallbackConfig) callbacks.Handler {
	return &LoggingHandler{
		logger: log,
		cfg:    cfg,
		level:  logger.ParseLevel(cfg.Level),
	}
}

// OnStart 在节点开始执行时被调用。
// 将开始时间注入上下文以计算耗时。
func (h *LoggingHandler) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if !h.cfg.Enabled {
		return ctx
	}

	ctx = context.WithValue(ctx, startTimeKey, time.Now())

	h.log(ctx, "节点开始执行",
		"component", info.Component,
		"name", info.Name,
		"type", info.Type,
	)

	return ctx
}

// OnEnd 在节点执行完成时被调用。
func (h *LoggingHandler) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if !h.cfg.Enabled {
		return ctx
	}

	h.log(ctx, "节点执行完成",
		"component", info.Component,
		"name", info.Name,
		"type", info.Type,
		"duration_ms", elapsed(ctx, startTimeKey).Milliseconds(),
	)

	return ctx
}

// OnError 在节点执行出错时被调用。
func (h *LoggingHandler) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	if !h.cfg.Enabled {
		return ctx
	}

	h.logger.ErrorContext(ctx, "节点执行出错",
		"component", info.Component,
		"name", info.Name,
		"type", info.Type,
		"duration_ms", elapsed(ctx, startTimeKey).Milliseconds(),
		"error", err.Error(),
	)

	return ctx
}

// OnStartWithStreamInput 流程不使用流式输入，仅记录时间
func (h *LoggingHandler) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	if !h.cfg.Enabled {
		return ctx
	}
	return context.WithValue(ctx, startTimeKey, time.Now())
}

// OnEndWithStreamOutput 流程不使用流式输出，仅记录耗时
func (h *LoggingHandler) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	if !h.cfg.Enabled {
		return ctx
	}

	h.log(ctx, "节点流式输出完成",
		"component", info.Component,
		"name", info.Name,
		"duration_ms", elapsed(ctx, startTimeKey).Milliseconds(),
	)

	return ctx
}

func (h *LoggingHandler) log(ctx context.Context, msg string, args ...interface{}) {
	if h.level <= slog.LevelDebug {
		h.logger.DebugContext(ctx, msg, args...)
		return
	}
	h.logger.InfoContext(ctx, msg, args...)
}

// elapsed 计算自上下文中记录的开始时间以来的耗时
func elapsed(ctx context.Context, key contextKey) time.Duration {
	startTime, ok := ctx.Value(key).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(startTime)
}

// contextKey 定义了上下文键的类型，用于防止键名冲突。
type contextKey string

const (
	// startTimeKey 用于在上下文中存储节点开始执行的时间。
	startTimeKey contextKey = "callback_start_time"
)
