package services

// ResponseValidator 输出结构校验接口
// 对合并后的架构响应映射进行结构校验，校验失败时返回描述所有违例的错误
type ResponseValidator interface {
	// Validate 校验文档
	// document: 合并后的架构响应映射
	// 返回: 校验失败时的错误信息
	Validate(document map[string]any) error
}
