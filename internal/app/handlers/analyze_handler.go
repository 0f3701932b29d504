package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"arch-advisor/internal/app/middleware"
	"arch-advisor/internal/domain/models"
	"arch-advisor/internal/domain/services"
	"arch-advisor/pkg/logger"
	"arch-advisor/pkg/status"
)

// AnalyzeHandler 架构分析处理器
type AnalyzeHandler struct {
	service services.AnalysisService
	logger  logger.Logger
}

// NewAnalyzeHandler 创建架构分析处理器
func NewAnalyzeHandler(service services.AnalysisService, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  log,
	}
}

// ErrorResponse 错误响应格式
type ErrorResponse struct {
	Status  status.Status `json:"status"`
	Message string        `json:"message"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status status.Status `json:"status"`
}

// AnalyzeRequest 分析请求。
// 必填字段使用指针，字段缺失时绑定失败，空字符串可以通过。
type AnalyzeRequest struct {
	UserCount          *string `json:"user_count" binding:"required"`
	TrafficPattern     *string `json:"traffic_pattern" binding:"required"`
	WorkloadType       *string `json:"workload_type" binding:"required"`
	AIMLUsage          *string `json:"ai_ml_usage"`
	LatencySensitivity *string `json:"latency_sensitivity" binding:"required"`
	BudgetConstraint   *string `json:"budget_constraint" binding:"required"`
	ReliabilityNeeds   *string `json:"reliability_needs" binding:"required"`
	AdditionalContext  *string `json:"additional_context"`
}

// ToRequirementInput 转换为领域需求记录，未提供 ai_ml_usage 时使用 none
func (r *AnalyzeRequest) ToRequirementInput() *models.RequirementInput {
	input := &models.RequirementInput{
		UserCount:          deref(r.UserCount),
		TrafficPattern:     deref(r.TrafficPattern),
		WorkloadType:       deref(r.WorkloadType),
		AIMLUsage:          models.DefaultAIMLUsage,
		LatencySensitivity: deref(r.LatencySensitivity),
		BudgetConstraint:   deref(r.BudgetConstraint),
		ReliabilityNeeds:   deref(r.ReliabilityNeeds),
		AdditionalContext:  r.AdditionalContext,
	}
	if r.AIMLUsage != nil {
		input.AIMLUsage = *r.AIMLUsage
	}
	return input
}

// Analyze 执行架构分析
// POST /analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := middleware.GetRequestID(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WarnContext(ctx, "分析请求参数解析失败",
			"request_id", requestID,
			"error", err.Error())
		h.respondWithError(c, status.ErrCodeInvalidParam, err.Error())
		return
	}

	// 客户端断开不取消已发出的模型调用
	startTime := time.Now()
	result, err := h.service.Analyze(context.WithoutCancel(ctx), req.ToRequirementInput())
	duration := time.Since(startTime).Milliseconds()

	if err != nil {
		h.logger.ErrorContext(ctx, "架构分析失败",
			"request_id", requestID,
			"duration_ms", duration,
			"error", err.Error())
		code := status.ErrCodeUpstream
		if errors.Is(err, services.ErrAnalysisInternal) {
			code = status.ErrCodeInternal
		}
		h.respondWithError(c, code, err.Error())
		return
	}

	code := status.CodeOK
	if result.Status == status.Error {
		code = status.ErrCodeSchemaViolation
	}

	h.logger.InfoContext(ctx, "架构分析完成",
		"request_id", requestID,
		"duration_ms", duration,
		"status", result.Status,
		"code", code.String())

	c.JSON(code.HTTPStatus(), result)
}

// HealthCheck 健康检查
// GET /health
func (h *AnalyzeHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: status.Healthy})
}

// respondWithError 返回错误响应
func (h *AnalyzeHandler) respondWithError(c *gin.Context, code status.StatusCode, message string) {
	c.JSON(code.HTTPStatus(), ErrorResponse{
		Status:  status.Error,
		Message: message,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
