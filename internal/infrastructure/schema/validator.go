// Package schema 基于 JSON Schema 的输出结构校验
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"arch-advisor/internal/domain/services"
)

//go:embed architecture_response.schema.json
var architectureResponseSchema []byte

// JSONSchemaValidator 使用预编译的 JSON Schema 校验文档
type JSONSchemaValidator struct {
	schema *gojsonschema.Schema
}

var _ services.ResponseValidator = (*JSONSchemaValidator)(nil)

// NewArchitectureResponseValidator 编译内置的架构响应 Schema
func NewArchitectureResponseValidator() (*JSONSchemaValidator, error) {
	return NewJSONSchemaValidator(architectureResponseSchema)
}

// NewJSONSchemaValidator 编译给定的 Schema
func NewJSONSchemaValidator(schemaJSON []byte) (*JSONSchemaValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile json schema: %w", err)
	}
	return &JSONSchemaValidator{schema: compiled}, nil
}

// Validate 校验文档，所有违例合并为一条错误信息
func (v *JSONSchemaValidator) Validate(document map[string]any) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("%d validation error(s) for ArchitectureResponse: %s", len(errs), strings.Join(errs, "; "))
}
