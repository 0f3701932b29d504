package components

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"arch-advisor/internal/eino/prompts"
)

// Responder 根据系统提示词与用户内容生成模型回复
type Responder func(ctx context.Context, systemPrompt, userContent string) (string, error)

// FakeChatModel 返回确定性 JSON 的对话模型，用于离线运行与测试
type FakeChatModel struct {
	respond Responder
	calls   atomic.Int64
}

var _ model.BaseChatModel = (*FakeChatModel)(nil)

// NewFakeChatModel 创建 fake 对话模型，respond 为空时使用默认回复
func NewFakeChatModel(respond Responder) *FakeChatModel {
	if respond == nil {
		respond = DefaultFakeResponder
	}
	return &FakeChatModel{respond: respond}
}

// Calls 返回 Generate 被调用的次数
func (f *FakeChatModel) Calls() int64 {
	return f.calls.Load()
}

// Generate 取出系统与用户消息后交给 Responder
func (f *FakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls.Add(1)

	var systemPrompt, userContent string
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			systemPrompt = msg.Content
		case schema.User:
			userContent = msg.Content
		}
	}

	content, err := f.respond(ctx, systemPrompt, userContent)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(content, nil), nil
}

// Stream fake 模型不支持流式输出
func (f *FakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("fake chat model does not support streaming")
}

// DefaultFakeResponder 校验提示词返回"需求充分"，其余返回最小可用的架构设计
func DefaultFakeResponder(ctx context.Context, systemPrompt, userContent string) (string, error) {
	var obj map[string]any
	if systemPrompt == prompts.Validation {
		obj = map[string]any{
			"is_sufficient":        true,
			"clarifying_questions": []any{},
		}
		if requirementsBlank(userContent) {
			obj = map[string]any{
				"is_sufficient": false,
				"clarifying_questions": []any{
					map[string]any{"field": "user_count", "question": "How many users do you expect at launch and in a year?", "why": "Scale drives every sizing decision."},
					map[string]any{"field": "workload_type", "question": "What kind of workload does the system serve?", "why": "Read heavy and write heavy systems need different designs."},
				},
			}
		}
	} else {
		obj = map[string]any{
			"requirement_analysis": "Offline analysis of the submitted requirements.",
			"patterns": []any{
				map[string]any{"title": "Strategy", "decision": "Modular monolith", "justification": "Single deployable keeps operations simple at small scale."},
			},
			"system_design": []any{
				map[string]any{"title": "API", "decision": "Stateless HTTP service", "justification": "Horizontal scaling behind a load balancer."},
			},
			"technology_mapping": []any{
				map[string]any{
					"name":                 "PostgreSQL",
					"pros":                 []any{"Mature", "Transactional"},
					"cons":                 []any{"Vertical write scaling"},
					"trade_off_summary":    "Consistency over write throughput.",
					"comparative_analysis": "Why not MySQL and MongoDB: weaker JSON indexing and no multi-document transactions by default.",
				},
			},
			"deployment_strategy": []any{
				map[string]any{"title": "Platform", "decision": "AWS ECS", "justification": "Managed containers without cluster operations."},
			},
			"diagram_mermaid":  "graph TD\n  A[API] --> B[PostgreSQL]",
			"cost_insights":    []any{map[string]any{"component": "PostgreSQL", "cost_band": "Medium", "driver": "Instance size"}},
			"scale_simulation": "Scale the API horizontally and add read replicas past 10k rps.",
			"bottlenecks":      []any{"Primary database writes"},
			"failure_handling": "Multi-AZ database with automated failover.",
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// requirementsBlank 判断需求中所有字段是否均为空白
func requirementsBlank(userContent string) bool {
	body := strings.TrimSpace(strings.TrimPrefix(userContent, "Requirements:"))
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return false
	}
	for key, value := range fields {
		if key == "ai_ml_usage" {
			continue
		}
		if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}
