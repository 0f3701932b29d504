package callbacks

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"

	"arch-advisor/internal/eino/config"
)

// MetricsHandler 指标回调处理器，按节点统计调用次数、失败次数与耗时
type MetricsHandler struct {
	cfg *config.MetricsCallbackConfig

	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   *prometheus.GaugeVec
}

// NewMetricsHandler 创建指标回调处理器并将指标注册到 reg
func NewMetricsHandler(cfg *config.MetricsCallbackConfig, reg prometheus.Registerer) (*MetricsHandler, error) {
	labels := []string{"component", "name"}

	h := &MetricsHandler{
		cfg: cfg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "node_calls_total",
			Help:      "Total number of flow node executions",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "node_failures_total",
			Help:      "Total number of failed flow node executions",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of flow node executions in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, labels),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "node_active",
			Help:      "Number of flow node executions in progress",
		}, labels),
	}

	for _, collector := range []prometheus.Collector{h.calls, h.failures, h.duration, h.active} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return h, nil
}

// OnStart 节点开始执行时调用
func (h *MetricsHandler) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if !h.cfg.Enabled {
		return ctx
	}

	h.calls.WithLabelValues(string(info.Component), info.Name).Inc()
	h.active.WithLabelValues(string(info.Component), info.Name).Inc()

	return context.WithValue(ctx, metricsStartTimeKey, time.Now())
}

// OnEnd 节点执行完成时调用
func (h *MetricsHandler) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if !h.cfg.Enabled {
		return ctx
	}

	h.finish(ctx, info)
	return ctx
}

// OnError 节点执行出错时调用
func (h *MetricsHandler) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	if !h.cfg.Enabled {
		return ctx
	}

	h.failures.WithLabelValues(string(info.Component), info.Name).Inc()
	h.finish(ctx, info)
	return ctx
}

// OnStartWithStreamInput 流式输入开始时调用
func (h *MetricsHandler) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return h.OnStart(ctx, info, nil)
}

// OnEndWithStreamOutput 流式输出结束时调用
func (h *MetricsHandler) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	return h.OnEnd(ctx, info, nil)
}

// finish 记录耗时并减少进行中计数
func (h *MetricsHandler) finish(ctx context.Context, info *callbacks.RunInfo) {
	h.active.WithLabelValues(string(info.Component), info.Name).Dec()

	startTime, ok := ctx.Value(metricsStartTimeKey).(time.Time)
	if !ok {
		return
	}
	h.duration.WithLabelValues(string(info.Component), info.Name).Observe(time.Since(startTime).Seconds())
}

const (
	metricsStartTimeKey contextKey = "metrics_start_time"
)
