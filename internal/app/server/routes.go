package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arch-advisor/internal/app/handlers"
	"arch-advisor/internal/app/middleware"
	"arch-advisor/pkg/logger"
)

// RouteOptions 路由可选项
type RouteOptions struct {
	// MetricsPath 指标暴露路径，为空时不注册
	MetricsPath string
	// MetricsGatherer 指标来源
	MetricsGatherer prometheus.Gatherer
}

// SetupRoutes 配置并注册 HTTP 服务器的所有路由规则。
// 参数 engine: Gin 引擎实例。
// 参数 analyzeHandler: 架构分析处理器。
// 参数 log: 日志记录器。
// 参数 opts: 指标等可选路由。
func SetupRoutes(engine *gin.Engine, analyzeHandler *handlers.AnalyzeHandler, log logger.Logger, opts RouteOptions) {
	// 应用全局中间件
	setupMiddleware(engine, log, opts)

	// 架构分析
	engine.POST("/analyze", analyzeHandler.Analyze)
	// 健康检查
	engine.GET("/health", analyzeHandler.HealthCheck)

	// Prometheus 指标
	if opts.MetricsPath != "" && opts.MetricsGatherer != nil {
		engine.GET(opts.MetricsPath, gin.WrapH(promhttp.HandlerFor(opts.MetricsGatherer, promhttp.HandlerOpts{})))
	}
}

// setupMiddleware 设置全局中间件
func setupMiddleware(engine *gin.Engine, log logger.Logger, opts RouteOptions) {
	// 设置恢复中间件 - 捕获panic并返回500错误
	engine.Use(gin.Recovery())

	// 跨域 - 所有响应携带 CORS 头，预检请求直接返回
	engine.Use(middleware.CORS())

	skipPaths := []string{"/health"}
	if opts.MetricsPath != "" {
		skipPaths = append(skipPaths, opts.MetricsPath)
	}

	// 设置日志中间件 - 记录请求日志并生成请求ID
	engine.Use(middleware.LoggingMiddleware(&middleware.LoggingConfig{
		// 跳过健康检查与指标路径的日志记录，减少日志噪音
		SkipPaths: skipPaths,
		Logger:    log,
	}))
}
