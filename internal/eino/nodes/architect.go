package nodes

import (
	"context"
	"fmt"

	"arch-advisor/internal/domain/models"
	"arch-advisor/internal/eino/prompts"
)

// Architect 架构设计节点，返回模型输出的原始映射
type Architect struct {
	invoker *JSONInvoker
}

// NewArchitect 创建架构设计节点
func NewArchitect(invoker *JSONInvoker) *Architect {
	return &Architect{invoker: invoker}
}

// Design 调用模型生成完整架构设计
func (a *Architect) Design(ctx context.Context, input *models.RequirementInput) (map[string]any, error) {
	if input == nil {
		return nil, fmt.Errorf("requirement input is nil")
	}

	content, err := input.PromptContent()
	if err != nil {
		return nil, err
	}

	design, err := a.invoker.InvokeJSON(ctx, prompts.Architect, content)
	if err != nil {
		return nil, fmt.Errorf("architect call: %w", err)
	}

	return design, nil
}
