package nodes

import (
	"context"
	"fmt"
	"maps"

	"arch-advisor/internal/domain/models"
	"arch-advisor/internal/domain/services"
	"arch-advisor/pkg/logger"
	"arch-advisor/pkg/status"
)

// 可选字段缺省值
const (
	DefaultExecutiveSummary = "Architecture synthesized."
	DefaultTechnicalSummary = "See technology mapping for details."
)

// MergeInput 合并节点输入，两次模型调用的结果
type MergeInput struct {
	Validation *models.ValidationResult
	Design     map[string]any
}

// Merger 合并校验与设计结果并补全默认值
type Merger struct {
	validator services.ResponseValidator
	logger    logger.Logger
}

// NewMerger 创建合并节点
func NewMerger(validator services.ResponseValidator, log logger.Logger) *Merger {
	return &Merger{
		validator: validator,
		logger:    log,
	}
}

// Merge 以架构设计为基础合并校验结果。
// 结构校验失败时返回固定的兜底响应，状态为 error。
func (m *Merger) Merge(ctx context.Context, input *MergeInput) (*models.FinalResponse, error) {
	if input == nil || input.Validation == nil {
		return nil, fmt.Errorf("%w: merge input is incomplete", services.ErrAnalysisInternal)
	}

	merged := make(map[string]any, len(input.Design)+6)
	maps.Copy(merged, input.Design)

	// 需求不充分时覆盖设计结果中的澄清问题
	if !input.Validation.IsSufficient {
		merged["clarifying_questions"] = input.Validation.ClarifyingQuestions
	}

	setDefault(merged, "critic_review", []any{})
	setDefault(merged, "risk_profile", nil)
	setDefault(merged, "what_if_analysis", []any{})
	setDefault(merged, "executive_summary", DefaultExecutiveSummary)
	setDefault(merged, "technical_summary", DefaultTechnicalSummary)

	if err := m.validator.Validate(merged); err != nil {
		m.logger.WarnContext(ctx, "架构响应结构校验失败，返回兜底响应", "error", err)
		return fallback(err), nil
	}

	data := &models.ArchitectureResponse{}
	if err := models.DecodeMapping(merged, data); err != nil {
		m.logger.WarnContext(ctx, "架构响应解码失败，返回兜底响应", "error", err)
		return fallback(err), nil
	}
	data.Normalize()

	return &models.FinalResponse{
		Status: status.Success,
		Data:   data,
	}, nil
}

func fallback(err error) *models.FinalResponse {
	return &models.FinalResponse{
		Status: status.Error,
		Data:   models.NewFallbackArchitectureResponse(err),
	}
}

// setDefault 仅在键不存在时写入，已存在的值（包括 null）保持不变
func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
