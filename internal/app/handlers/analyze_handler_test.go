package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arch-advisor/internal/domain/models"
	"arch-advisor/internal/domain/services"
	"arch-advisor/internal/eino/components"
	"arch-advisor/internal/eino/config"
	"arch-advisor/internal/eino/flows"
	"arch-advisor/internal/eino/nodes"
	"arch-advisor/internal/infrastructure/schema"
	"arch-advisor/pkg/logger"
	"arch-advisor/pkg/status"
)

const fullBody = `{
  "user_count": "100K",
  "traffic_pattern": "bursty",
  "workload_type": "IO-bound",
  "latency_sensitivity": "high",
  "budget_constraint": "moderate",
  "reliability_needs": "99.9%"
}`

const blankBody = `{"user_count":"","traffic_pattern":"","workload_type":"","latency_sensitivity":"","budget_constraint":"","reliability_needs":""}`

type stubService struct {
	got    *models.RequirementInput
	ctxErr error
	resp   *models.FinalResponse
	err    error
}

func (s *stubService) Analyze(ctx context.Context, input *models.RequirementInput) (*models.FinalResponse, error) {
	s.got = input
	s.ctxErr = ctx.Err()
	return s.resp, s.err
}

func newEngine(service *AnalyzeHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/analyze", service.Analyze)
	engine.GET("/health", service.HealthCheck)
	return engine
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler_Binding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "all fields", body: fullBody, wantCode: http.StatusOK},
		{name: "empty strings accepted", body: blankBody, wantCode: http.StatusOK},
		{name: "missing required field", body: `{"user_count": "1K"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "malformed json", body: `{"user_count": `, wantCode: http.StatusUnprocessableEntity},
		{name: "wrong type", body: strings.Replace(fullBody, `"100K"`, `100`, 1), wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{resp: &models.FinalResponse{Status: status.Success, Data: &models.ArchitectureResponse{}}}
			engine := newEngine(NewAnalyzeHandler(svc, logger.Discard()))

			w := doRequest(engine, http.MethodPost, "/analyze", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode != http.StatusOK {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, status.Error, body.Status)
				assert.NotEmpty(t, body.Message)
				assert.Nil(t, svc.got)
			}
		})
	}
}

func TestAnalyzeRequest_ToRequirementInput(t *testing.T) {
	var req AnalyzeRequest
	require.NoError(t, json.Unmarshal([]byte(fullBody), &req))

	input := req.ToRequirementInput()
	assert.Equal(t, "100K", input.UserCount)
	assert.Equal(t, models.DefaultAIMLUsage, input.AIMLUsage)
	assert.Nil(t, input.AdditionalContext)

	require.NoError(t, json.Unmarshal([]byte(`{"ai_ml_usage": "training", "additional_context": "EU only"}`), &req))
	input = req.ToRequirementInput()
	assert.Equal(t, "training", input.AIMLUsage)
	require.NotNil(t, input.AdditionalContext)
	assert.Equal(t, "EU only", *input.AdditionalContext)
}

func TestAnalyzeHandler_ServiceError(t *testing.T) {
	svc := &stubService{err: errors.New("chat completion: 503 Service Unavailable")}
	engine := newEngine(NewAnalyzeHandler(svc, logger.Discard()))

	w := doRequest(engine, http.MethodPost, "/analyze", fullBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, status.Error, body.Status)
	assert.Contains(t, body.Message, "503")
}

func TestAnalyzeHandler_InternalError(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: merge input is incomplete", services.ErrAnalysisInternal)}
	engine := newEngine(NewAnalyzeHandler(svc, logger.Discard()))

	w := doRequest(engine, http.MethodPost, "/analyze", fullBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, status.Error, body.Status)
	assert.Contains(t, body.Message, "incomplete")
}

func TestAnalyzeHandler_ClientDisconnectDoesNotCancel(t *testing.T) {
	svc := &stubService{resp: &models.FinalResponse{Status: status.Success, Data: &models.ArchitectureResponse{}}}
	engine := newEngine(NewAnalyzeHandler(svc, logger.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(fullBody)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got)
	assert.NoError(t, svc.ctxErr)
}

func TestAnalyzeHandler_FallbackIsHTTP200(t *testing.T) {
	svc := &stubService{resp: &models.FinalResponse{
		Status: status.Error,
		Data:   models.NewFallbackArchitectureResponse(errors.New("1 validation error(s)")),
	}}
	engine := newEngine(NewAnalyzeHandler(svc, logger.Discard()))

	w := doRequest(engine, http.MethodPost, "/analyze", fullBody)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	data := body["data"].(map[string]any)
	assert.Equal(t, models.FallbackDiagram, data["diagram_mermaid"])
	assert.Equal(t, []any{}, data["technology_mapping"])
}

func TestAnalyzeHandler_HealthCheck(t *testing.T) {
	engine := newEngine(NewAnalyzeHandler(&stubService{}, logger.Discard()))

	w := doRequest(engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
}

func TestAnalyzeHandler_EndToEnd(t *testing.T) {
	validator, err := schema.NewArchitectureResponseValidator()
	require.NoError(t, err)
	invoker := nodes.NewJSONInvoker(components.NewFakeChatModel(nil))
	graph := flows.NewAnalyzeGraph(
		nodes.NewRequirementValidator(invoker),
		nodes.NewArchitect(invoker),
		nodes.NewMerger(validator, logger.Discard()),
		&config.AnalysisConfig{Mode: config.ModeParallel},
	)
	engine := newEngine(NewAnalyzeHandler(graph, logger.Discard()))

	t.Run("sufficient", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/analyze", fullBody)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "success", body["status"])
		data := body["data"].(map[string]any)
		require.NotNil(t, data)
		assert.Equal(t, []any{}, data["critic_review"])
		assert.Equal(t, []any{}, data["what_if_analysis"])
		assert.Nil(t, data["risk_profile"])
		assert.Equal(t, nodes.DefaultExecutiveSummary, data["executive_summary"])
		assert.Equal(t, nodes.DefaultTechnicalSummary, data["technical_summary"])
		assert.Empty(t, data["clarifying_questions"])
	})

	t.Run("all empty surfaces questions", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/analyze", blankBody)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		data := body["data"].(map[string]any)
		questions, ok := data["clarifying_questions"].([]any)
		require.True(t, ok)
		assert.NotEmpty(t, questions)
	})
}
