package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"arch-advisor/pkg/status"
)

// ValidationResult 需求充分性校验结果
type ValidationResult struct {
	IsSufficient        bool                    `json:"is_sufficient"`
	ClarifyingQuestions []ClarificationQuestion `json:"clarifying_questions"`
}

// ErrNullSufficiency 模型显式返回 "is_sufficient": null
var ErrNullSufficiency = errors.New("is_sufficient must be a boolean, got null")

// UnmarshalJSON 解码校验结果。
// 缺少 is_sufficient 时视为 true，显式 null 视为错误。
func (v *ValidationResult) UnmarshalJSON(data []byte) error {
	var decoded struct {
		IsSufficient        json.RawMessage         `json:"is_sufficient"`
		ClarifyingQuestions []ClarificationQuestion `json:"clarifying_questions"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	sufficient := true
	switch raw := bytes.TrimSpace(decoded.IsSufficient); {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		return ErrNullSufficiency
	default:
		if err := json.Unmarshal(raw, &sufficient); err != nil {
			return fmt.Errorf("is_sufficient: %w", err)
		}
	}

	v.IsSufficient = sufficient
	v.ClarifyingQuestions = nonNil(decoded.ClarifyingQuestions)
	return nil
}

// FinalResponse 对外返回的最终响应
type FinalResponse struct {
	Status status.Status         `json:"status"`
	Data   *ArchitectureResponse `json:"data"`
}

// DecodeMapping 将模型返回的映射解码为目标结构
func DecodeMapping(raw map[string]any, target any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}
	return nil
}
