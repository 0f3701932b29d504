package models

import (
	"encoding/json"
	"fmt"
)

// DefaultAIMLUsage 未提供 AI/ML 使用情况时的默认值
const DefaultAIMLUsage = "none"

// RequirementInput 定义了一次架构分析请求的需求记录。
// 仅在单次请求内存在，接收后不再修改。
type RequirementInput struct {
	// UserCount 预期用户规模（如 1K、100K、1M+）
	UserCount string `json:"user_count"`

	// TrafficPattern 流量模式：平稳、突发或实时
	TrafficPattern string `json:"traffic_pattern"`

	// WorkloadType 负载类型：CPU 密集、IO 密集或混合
	WorkloadType string `json:"workload_type"`

	// AIMLUsage AI/ML 使用情况：训练、推理或 none
	AIMLUsage string `json:"ai_ml_usage"`

	// LatencySensitivity 延迟敏感度
	LatencySensitivity string `json:"latency_sensitivity"`

	// BudgetConstraint 预算约束
	BudgetConstraint string `json:"budget_constraint"`

	// ReliabilityNeeds 可用性与可靠性要求
	ReliabilityNeeds string `json:"reliability_needs"`

	// AdditionalContext 补充说明（可选）
	AdditionalContext *string `json:"additional_context"`
}

// PromptContent 将需求记录序列化为发送给模型的用户消息。
// 格式为 "Requirements:\n" 加上两空格缩进的 JSON。
func (r *RequirementInput) PromptContent() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal requirements: %w", err)
	}
	return "Requirements:\n" + string(data), nil
}
