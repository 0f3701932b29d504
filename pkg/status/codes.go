package status

import "net/http"

// Status 响应体中的状态标签
type Status string

const (
	// Success 分析成功
	Success Status = "success"
	// Error 分析失败（包括输出结构校验失败的兜底响应）
	Error Status = "error"
	// Healthy 健康检查正常
	Healthy Status = "healthy"
)

// StatusCode 统一的业务状态码类型
// 0 表示成功，其余为错误状态

type StatusCode int

const (
	// CodeOK 成功
	CodeOK StatusCode = 0

	// ErrCodeInvalidParam 参数错误（请求体格式错误或缺少必填字段）
	ErrCodeInvalidParam StatusCode = 1001
	// ErrCodeInternal 内部错误
	ErrCodeInternal StatusCode = 1002
	// ErrCodeUpstream 上游模型调用失败
	ErrCodeUpstream StatusCode = 1003
	// ErrCodeSchemaViolation 合并结果不符合输出结构
	ErrCodeSchemaViolation StatusCode = 1004
)

// String 将状态码转换为字符串标识
func (c StatusCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case ErrCodeInvalidParam:
		return "INVALID_PARAM"
	case ErrCodeInternal:
		return "INTERNAL_ERROR"
	case ErrCodeUpstream:
		return "UPSTREAM_ERROR"
	case ErrCodeSchemaViolation:
		return "SCHEMA_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus 返回状态码对应的HTTP状态码。
// 结构校验失败走兜底响应，仍返回200。
func (c StatusCode) HTTPStatus() int {
	switch c {
	case CodeOK, ErrCodeSchemaViolation:
		return http.StatusOK
	case ErrCodeInvalidParam:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
