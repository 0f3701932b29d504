package services

import (
	"context"
	"errors"

	"arch-advisor/internal/domain/models"
)

// ErrAnalysisInternal 非模型调用引起的内部错误（流程编译失败、节点输入不完整等）
var ErrAnalysisInternal = errors.New("analysis internal error")

// AnalysisService 架构分析服务接口
type AnalysisService interface {
	// Analyze 对需求记录执行校验与架构设计并返回合并后的响应
	Analyze(ctx context.Context, input *models.RequirementInput) (*models.FinalResponse, error)
}
