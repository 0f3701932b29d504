package nodes

import (
	"context"
	"fmt"

	"arch-advisor/internal/domain/models"
	"arch-advisor/internal/eino/prompts"
)

// RequirementValidator 需求充分性校验节点
type RequirementValidator struct {
	invoker *JSONInvoker
}

// NewRequirementValidator 创建需求校验节点
func NewRequirementValidator(invoker *JSONInvoker) *RequirementValidator {
	return &RequirementValidator{invoker: invoker}
}

// Validate 调用模型判断需求是否充分。
// 判定充分时清空澄清问题列表。
func (v *RequirementValidator) Validate(ctx context.Context, input *models.RequirementInput) (*models.ValidationResult, error) {
	if input == nil {
		return nil, fmt.Errorf("requirement input is nil")
	}

	content, err := input.PromptContent()
	if err != nil {
		return nil, err
	}

	raw, err := v.invoker.InvokeJSON(ctx, prompts.Validation, content)
	if err != nil {
		return nil, fmt.Errorf("validator call: %w", err)
	}

	result := &models.ValidationResult{}
	if err := models.DecodeMapping(raw, result); err != nil {
		return nil, fmt.Errorf("validator output: %w", err)
	}

	if result.IsSufficient {
		result.ClarifyingQuestions = []models.ClarificationQuestion{}
	}

	return result, nil
}
