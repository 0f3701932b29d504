// Package flows 提供 Eino Graph 流程定义
package flows

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	"arch-advisor/internal/domain/models"
	"arch-advisor/internal/domain/services"
	"arch-advisor/internal/eino/config"
	"arch-advisor/internal/eino/nodes"
)

// 并行分支的输出键
const (
	validationKey = "validation"
	designKey     = "design"
)

// AnalyzeGraph 架构分析流程。
// parallel 模式下校验与设计两次调用并发执行，sequential 模式下依次执行，最后统一合并。
type AnalyzeGraph struct {
	validator        *nodes.RequirementValidator
	architect        *nodes.Architect
	merger           *nodes.Merger
	cfg              *config.AnalysisConfig
	callbackHandlers []callbacks.Handler

	once     sync.Once
	runnable compose.Runnable[*models.RequirementInput, *models.FinalResponse]
	err      error
}

var _ services.AnalysisService = (*AnalyzeGraph)(nil)

// NewAnalyzeGraph 创建架构分析流程
func NewAnalyzeGraph(
	validator *nodes.RequirementValidator,
	architect *nodes.Architect,
	merger *nodes.Merger,
	cfg *config.AnalysisConfig,
	callbackHandlers ...callbacks.Handler,
) *AnalyzeGraph {
	return &AnalyzeGraph{
		validator:        validator,
		architect:        architect,
		merger:           merger,
		cfg:              cfg,
		callbackHandlers: callbackHandlers,
	}
}

// sequentialState 顺序模式下在节点之间传递的中间状态
type sequentialState struct {
	input      *models.RequirementInput
	validation *models.ValidationResult
}

// Compile 编译流程为 Runnable
func (g *AnalyzeGraph) Compile(ctx context.Context) (compose.Runnable[*models.RequirementInput, *models.FinalResponse], error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	chain := compose.NewChain[*models.RequirementInput, *models.FinalResponse]()

	switch g.cfg.Mode {
	case config.ModeParallel:
		// 1. 并发执行校验与设计
		parallel := compose.NewParallel().
			AddLambda(validationKey, compose.InvokableLambda(g.validator.Validate), compose.WithNodeName("validator")).
			AddLambda(designKey, compose.InvokableLambda(g.architect.Design), compose.WithNodeName("architect"))
		chain.AppendParallel(parallel)

		// 2. 合并两路结果
		chain.AppendLambda(compose.InvokableLambda(g.mergeParallel), compose.WithNodeName("merge"))

	case config.ModeSequential:
		// 1. 校验
		chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, input *models.RequirementInput) (*sequentialState, error) {
			validation, err := g.validator.Validate(ctx, input)
			if err != nil {
				return nil, err
			}
			return &sequentialState{input: input, validation: validation}, nil
		}), compose.WithNodeName("validator"))

		// 2. 设计
		chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, state *sequentialState) (*nodes.MergeInput, error) {
			design, err := g.architect.Design(ctx, state.input)
			if err != nil {
				return nil, err
			}
			return &nodes.MergeInput{Validation: state.validation, Design: design}, nil
		}), compose.WithNodeName("architect"))

		// 3. 合并
		chain.AppendLambda(compose.InvokableLambda(g.merger.Merge), compose.WithNodeName("merge"))
	}

	runnable, err := chain.Compile(ctx, compose.WithGraphName("analyze_"+g.cfg.Mode))
	if err != nil {
		return nil, fmt.Errorf("compile analyze chain: %w", err)
	}

	return runnable, nil
}

// mergeParallel 将并行分支输出转换为合并输入
func (g *AnalyzeGraph) mergeParallel(ctx context.Context, outputs map[string]any) (*models.FinalResponse, error) {
	validation, ok := outputs[validationKey].(*models.ValidationResult)
	if !ok {
		return nil, fmt.Errorf("unexpected validation output type %T", outputs[validationKey])
	}
	design, ok := outputs[designKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected design output type %T", outputs[designKey])
	}
	return g.merger.Merge(ctx, &nodes.MergeInput{Validation: validation, Design: design})
}

// Prepare 编译流程，只执行一次
func (g *AnalyzeGraph) Prepare(ctx context.Context) error {
	g.once.Do(func() {
		g.runnable, g.err = g.Compile(ctx)
	})
	return g.err
}

// Analyze 执行一次架构分析。
// Callback 处理器在每次调用时通过 RunOption 注入。
func (g *AnalyzeGraph) Analyze(ctx context.Context, input *models.RequirementInput) (*models.FinalResponse, error) {
	if err := g.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("%w: compile graph: %w", services.ErrAnalysisInternal, err)
	}

	var opts []compose.Option
	if len(g.callbackHandlers) > 0 {
		opts = append(opts, compose.WithCallbacks(g.callbackHandlers...))
	}

	return g.runnable.Invoke(ctx, input, opts...)
}
