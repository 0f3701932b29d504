package models

import (
	"encoding/json"
)

const (
	// DefaultDiagram 模型未给出架构图时使用的 Mermaid 图
	DefaultDiagram = "graph TD\n  A[Start] --> B[End]"
	// FallbackDiagram 输出结构校验失败时使用的 Mermaid 图
	FallbackDiagram = "graph TD\n  A[Error] --> B[Please Retry]"

	// DefaultBand 成本区间与严重程度的默认等级
	DefaultBand = "Medium"
)

// ClarificationQuestion 需求不足时向用户提出的澄清问题
type ClarificationQuestion struct {
	Field    string `json:"field"`
	Question string `json:"question"`
	Why      string `json:"why"`
}

// DecisionStep 一条设计决策（模式选择、系统分层、部署步骤）
type DecisionStep struct {
	Title         string `json:"title"`
	Decision      string `json:"decision"`
	Justification string `json:"justification"`
}

// TechOption 技术选型条目，包含与竞品的对比分析
type TechOption struct {
	Name                string   `json:"name"`
	Pros                []string `json:"pros"`
	Cons                []string `json:"cons"`
	TradeOffSummary     string   `json:"trade_off_summary"`
	ComparativeAnalysis string   `json:"comparative_analysis"`
}

// CriticFeedback 评审意见
type CriticFeedback struct {
	Point          string `json:"point"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// UnmarshalJSON 解码评审意见，缺省 severity 为 Medium
func (c *CriticFeedback) UnmarshalJSON(data []byte) error {
	type alias CriticFeedback
	decoded := alias{Severity: DefaultBand}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = CriticFeedback(decoded)
	return nil
}

// RiskFactor 单项风险评分
type RiskFactor struct {
	Category      string `json:"category"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// RiskProfile 风险画像
type RiskProfile struct {
	OverallConfidenceScore int          `json:"overall_confidence_score"`
	Risks                  []RiskFactor `json:"risks"`
}

// CostInsight 成本洞察
type CostInsight struct {
	Component string `json:"component"`
	CostBand  string `json:"cost_band"`
	Driver    string `json:"driver"`
}

// UnmarshalJSON 解码成本洞察，缺省 cost_band 为 Medium
func (c *CostInsight) UnmarshalJSON(data []byte) error {
	type alias CostInsight
	decoded := alias{CostBand: DefaultBand}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = CostInsight(decoded)
	return nil
}

// WhatIfScenario 假设场景分析
type WhatIfScenario struct {
	Scenario       string   `json:"scenario"`
	Impact         string   `json:"impact"`
	ValidParts     []string `json:"valid_parts"`
	BrokenParts    []string `json:"broken_parts"`
	Recommendation string   `json:"recommendation"`
}

// ArchitectureResponse 架构分析的主输出。
// 列表字段在序列化前统一补为空列表；可选字段未设置时输出 null。
type ArchitectureResponse struct {
	RequirementAnalysis string         `json:"requirement_analysis"`
	Patterns            []DecisionStep `json:"patterns"`
	SystemDesign        []DecisionStep `json:"system_design"`
	TechnologyMapping   []TechOption   `json:"technology_mapping"`
	DiagramMermaid      string         `json:"diagram_mermaid"`
	CostInsights        []CostInsight  `json:"cost_insights"`
	ScaleSimulation     string         `json:"scale_simulation"`
	Bottlenecks         []string       `json:"bottlenecks"`
	FailureHandling     string         `json:"failure_handling"`

	RiskProfile         *RiskProfile            `json:"risk_profile"`
	CriticReview        []CriticFeedback        `json:"critic_review"`
	WhatIfAnalysis      []WhatIfScenario        `json:"what_if_analysis"`
	ExecutiveSummary    *string                 `json:"executive_summary"`
	TechnicalSummary    *string                 `json:"technical_summary"`
	DeploymentStrategy  []DecisionStep          `json:"deployment_strategy"`
	ClarifyingQuestions []ClarificationQuestion `json:"clarifying_questions"`
}

// UnmarshalJSON 解码架构响应，缺省的架构图使用 DefaultDiagram
func (a *ArchitectureResponse) UnmarshalJSON(data []byte) error {
	type alias ArchitectureResponse
	decoded := alias{DiagramMermaid: DefaultDiagram}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = ArchitectureResponse(decoded)
	a.Normalize()
	return nil
}

// Normalize 将必选列表字段中的 nil 替换为空列表，保证下游无需判空即可遍历
func (a *ArchitectureResponse) Normalize() {
	a.Patterns = nonNil(a.Patterns)
	a.SystemDesign = nonNil(a.SystemDesign)
	a.TechnologyMapping = nonNil(a.TechnologyMapping)
	a.CostInsights = nonNil(a.CostInsights)
	a.Bottlenecks = nonNil(a.Bottlenecks)

	for i := range a.TechnologyMapping {
		a.TechnologyMapping[i].Pros = nonNil(a.TechnologyMapping[i].Pros)
		a.TechnologyMapping[i].Cons = nonNil(a.TechnologyMapping[i].Cons)
	}
	for i := range a.WhatIfAnalysis {
		a.WhatIfAnalysis[i].ValidParts = nonNil(a.WhatIfAnalysis[i].ValidParts)
		a.WhatIfAnalysis[i].BrokenParts = nonNil(a.WhatIfAnalysis[i].BrokenParts)
	}
	if a.RiskProfile != nil {
		a.RiskProfile.Risks = nonNil(a.RiskProfile.Risks)
	}
}

// NewFallbackArchitectureResponse 构造输出结构校验失败时返回的兜底响应，
// 校验错误信息写入 executive_summary。
func NewFallbackArchitectureResponse(validationErr error) *ArchitectureResponse {
	executive := "Error: " + validationErr.Error()
	technical := "Validation failed. Please refine your requirements."

	return &ArchitectureResponse{
		RequirementAnalysis: "Error processing requirements.",
		Patterns:            []DecisionStep{},
		SystemDesign:        []DecisionStep{},
		TechnologyMapping:   []TechOption{},
		DeploymentStrategy:  []DecisionStep{},
		DiagramMermaid:      FallbackDiagram,
		CostInsights:        []CostInsight{},
		ScaleSimulation:     "N/A",
		Bottlenecks:         []string{},
		FailureHandling:     "N/A",
		ExecutiveSummary:    &executive,
		TechnicalSummary:    &technical,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
