package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"arch-advisor/configs"
	"arch-advisor/internal/app/handlers"
	"arch-advisor/internal/app/server"
	einocallbacks "arch-advisor/internal/eino/callbacks"
	"arch-advisor/internal/eino/components"
	einoconfig "arch-advisor/internal/eino/config"
	"arch-advisor/internal/eino/flows"
	"arch-advisor/internal/eino/nodes"
	"arch-advisor/internal/infrastructure/schema"
	"arch-advisor/pkg/logger"
)

// main 主函数 - 应用程序入口点
func main() {
	// 创建根上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 创建早期logger（使用默认配置）
	earlyLogger := logger.Default()

	// 初始化应用程序
	if err := initializeApplication(ctx, earlyLogger); err != nil {
		earlyLogger.ErrorContext(ctx, "应用程序初始化失败", "error", err)
		os.Exit(1)
	}
}

// initializeApplication 初始化应用程序
func initializeApplication(ctx context.Context, earlyLogger logger.Logger) error {
	// 1. 加载配置
	config, err := configs.Load(ctx)
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}

	earlyLogger.InfoContext(ctx, "配置加载成功",
		"server_port", config.Server.Port,
		"chat_model_provider", config.Eino.ChatModel.Provider,
		"chat_model", config.Eino.ChatModel.Model,
		"analysis_mode", config.Eino.Analysis.Mode)

	// 2. 初始化日志服务
	appLogger := initializeLogger(config.Logging)
	appLogger.InfoContext(ctx, "日志服务初始化完成")

	// 3. 初始化 Eino 组件
	analyzeGraph, routeOptions, err := initializeEinoComponents(ctx, &config.Eino, appLogger)
	if err != nil {
		return fmt.Errorf("Eino 组件初始化失败: %w", err)
	}
	appLogger.InfoContext(ctx, "Eino 组件初始化完成")

	// 4. 初始化应用层
	analyzeHandler := handlers.NewAnalyzeHandler(analyzeGraph, appLogger)
	httpServer := server.NewServer(&config.Server, analyzeHandler, appLogger, routeOptions)

	// 5. 启动服务并等待停止信号
	return runApplication(ctx, httpServer, config.Server.GracefulShutdownTimeout, appLogger)
}

// initializeLogger 初始化日志服务
func initializeLogger(config configs.LoggingConfig) logger.Logger {
	loggerConfig := logger.Config{
		Level:  logger.ParseLevel(config.Level),
		Output: config.Output,
		Format: config.Format,
	}

	if config.Output == "file" {
		loggerConfig.FilePath = config.FilePath
	}

	return logger.New(loggerConfig)
}

// initializeEinoComponents 初始化 Eino 组件并编译分析流程
func initializeEinoComponents(
	ctx context.Context,
	einoCfg *einoconfig.EinoConfig,
	log logger.Logger,
) (*flows.AnalyzeGraph, server.RouteOptions, error) {
	var routeOptions server.RouteOptions

	// 1. 创建 ChatModel（进程内唯一，所有请求共享）
	log.InfoContext(ctx, "正在初始化 ChatModel",
		"provider", einoCfg.ChatModel.Provider,
		"model", einoCfg.ChatModel.Model)

	chatModel, err := components.NewChatModel(ctx, &einoCfg.ChatModel, log)
	if err != nil {
		return nil, routeOptions, fmt.Errorf("ChatModel 初始化失败: %w", err)
	}
	log.InfoContext(ctx, "ChatModel 初始化成功")

	// 2. 编译输出结构 Schema
	responseValidator, err := schema.NewArchitectureResponseValidator()
	if err != nil {
		return nil, routeOptions, fmt.Errorf("输出结构 Schema 编译失败: %w", err)
	}

	// 3. 创建 Callback 处理器
	callbackFactory := einocallbacks.NewFactory(&einoCfg.Callbacks, log)
	callbackHandlers, err := callbackFactory.CreateHandlers()
	if err != nil {
		return nil, routeOptions, fmt.Errorf("Callback 初始化失败: %w", err)
	}

	if einoCfg.Callbacks.Metrics.Enabled {
		registry := callbackFactory.Registry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		routeOptions = server.RouteOptions{
			MetricsPath:     einoCfg.Callbacks.Metrics.Endpoint,
			MetricsGatherer: prometheus.Gatherer(registry),
		}
	}

	// 4. 创建分析流程并编译
	invoker := nodes.NewJSONInvoker(chatModel)
	analyzeGraph := flows.NewAnalyzeGraph(
		nodes.NewRequirementValidator(invoker),
		nodes.NewArchitect(invoker),
		nodes.NewMerger(responseValidator, log),
		&einoCfg.Analysis,
		callbackHandlers...,
	)
	if err := analyzeGraph.Prepare(ctx); err != nil {
		return nil, routeOptions, fmt.Errorf("Analyze Graph 编译失败: %w", err)
	}
	log.InfoContext(ctx, "Analyze Graph 编译成功", "mode", einoCfg.Analysis.Mode)

	return analyzeGraph, routeOptions, nil
}

// runApplication 运行应用程序，监听停止信号
// 此函数会阻塞直到收到停止信号、服务器错误或上下文取消
func runApplication(ctx context.Context, httpServer *server.Server, shutdownTimeout time.Duration, log logger.Logger) error {
	// 创建错误通道 - 用于接收服务器运行时错误
	errChan := make(chan error, 1)

	// 创建信号通道
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	// 启动HTTP服务器（非阻塞）
	httpServer.Start(ctx, errChan)

	// 等待停止信号、服务器错误或上下文取消
	select {
	case err := <-errChan:
		log.ErrorContext(ctx, "服务器运行错误", "error", err)
		return err

	case sig := <-signalChan:
		log.InfoContext(ctx, "收到停止信号，开始优雅关闭", "signal", sig.String())
		return gracefulShutdown(ctx, httpServer, shutdownTimeout, log)

	case <-ctx.Done():
		log.InfoContext(ctx, "上下文取消，开始优雅关闭")
		return gracefulShutdown(ctx, httpServer, shutdownTimeout, log)
	}
}

// gracefulShutdown 执行优雅关闭
func gracefulShutdown(ctx context.Context, httpServer *server.Server, timeout time.Duration, log logger.Logger) error {
	log.InfoContext(ctx, "开始执行优雅关闭流程")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "HTTP服务器关闭失败", "error", err)
		return fmt.Errorf("HTTP服务器关闭失败: %w", err)
	}

	log.InfoContext(ctx, "优雅关闭完成")
	return nil
}
