package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"model-health-api/config"
	"model-health-api/risk"
	"model-health-api/services"
	"model-health-api/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// upstreamStub fakes the model-serving API with fixed bodies per endpoint.
// An empty body means the endpoint answers 500.
type upstreamStub struct {
	predictBody string
	riskBody    string
}

func (u upstreamStub) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body string
		switch r.URL.Path {
		case "/predict":
			body = u.predictBody
		case "/failure-risk":
			body = u.riskBody
		}
		if body == "" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	client := telemetry.NewClient(config.UpstreamConfig{
		BaseURL:        upstreamURL,
		PredictTimeout: 2 * time.Second,
		RiskTimeout:    2 * time.Second,
	}, zap.NewNop())
	cache := services.NewDisabledCacheService()

	router := gin.New()
	predictionHandler := NewPredictionHandler(client, cache, zap.NewNop())
	riskHandler := NewRiskHandler(client, cache, zap.NewNop())
	router.POST("/api/v1/predict", predictionHandler.Predict)
	router.GET("/api/v1/failure-risk", riskHandler.GetFailureRisk)
	router.GET("/api/v1/models", GetModels)
	return router
}

const validSubmission = `{
	"model_type": "good",
	"traffic_volume": 50,
	"time_of_day": 12,
	"day_of_week": 2,
	"weather_risk": 1,
	"road_risk": 0
}`

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictTelemetryTier(t *testing.T) {
	srv := upstreamStub{
		predictBody: `{"prediction": 1, "confidence": 0.4, "latency": 0.01, "model_type": "good"}`,
		riskBody: `{
			"risk": "MEDIUM",
			"degradation": {"overall_degradation": 0.35, "confidence_drop": 0.12, "psi_increase": 0.08},
			"failure_probability": 0.4,
			"metrics": {"avg_confidence": 0.81}
		}`,
	}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodPost, "/api/v1/predict", validSubmission)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 0.4, resp.Prediction.Confidence)
	assert.Equal(t, risk.TierTelemetry, resp.Health.Tier)
	assert.Equal(t, risk.LevelRisky, resp.Health.Level)
	assert.Equal(t, 0.35, resp.Health.Progress)
	require.NotNil(t, resp.System)
	assert.Equal(t, risk.SystemAtRisk, resp.System.Level)
	assert.Equal(t, 0.81, resp.System.AvgConfidence)
}

func TestPredictFallbackWhenRiskEndpointDown(t *testing.T) {
	srv := upstreamStub{
		predictBody: `{"prediction": 0, "confidence": 0.9, "latency": 0.01, "model_type": "good"}`,
	}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodPost, "/api/v1/predict", validSubmission)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, risk.TierConfidenceFallback, resp.Health.Tier)
	assert.Equal(t, risk.CauseTransportFailure, resp.Health.FallbackCause)
	assert.Equal(t, risk.LevelHealthy, resp.Health.Level)
	assert.Equal(t, 0.9, resp.Health.Progress)
	assert.Nil(t, resp.System)
}

func TestPredictFallbackOnReportErrorMarker(t *testing.T) {
	srv := upstreamStub{
		predictBody: `{"prediction": 0, "confidence": 0.6, "latency": 0.01, "model_type": "bad"}`,
		riskBody:    `{"error": "insufficient history"}`,
	}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodPost, "/api/v1/predict", validSubmission)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, risk.TierConfidenceFallback, resp.Health.Tier)
	assert.Equal(t, risk.CauseUpstreamError, resp.Health.FallbackCause)
	assert.Equal(t, risk.LevelRisky, resp.Health.Level)
	assert.Nil(t, resp.System)
}

func TestPredictUpstreamDown(t *testing.T) {
	srv := upstreamStub{}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodPost, "/api/v1/predict", validSubmission)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPredictValidation(t *testing.T) {
	srv := upstreamStub{
		predictBody: `{"prediction": 1, "confidence": 0.9, "latency": 0.01, "model_type": "good"}`,
	}.start(t)
	router := newRouter(t, srv.URL)

	tests := []struct {
		name string
		body string
	}{
		{"missing model type", `{"traffic_volume": 50}`},
		{"unknown model type", `{"model_type": "ugly", "traffic_volume": 50}`},
		{"traffic volume too high", `{"model_type": "good", "traffic_volume": 300}`},
		{"hour out of range", `{"model_type": "good", "time_of_day": 24}`},
		{"day out of range", `{"model_type": "good", "day_of_week": 7}`},
		{"weather risk out of range", `{"model_type": "good", "weather_risk": 3}`},
		{"not json", `traffic`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/v1/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetFailureRisk(t *testing.T) {
	srv := upstreamStub{
		riskBody: `{
			"risk": "LOW",
			"degradation": {"overall_degradation": 0.05},
			"failure_probability": 0.71
		}`,
	}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodGet, "/api/v1/failure-risk", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp FailureRiskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotNil(t, resp.Report)
	assert.Equal(t, "LOW", resp.Report.Risk)
	require.NotNil(t, resp.System)
	// System health is independent of the per-prediction level.
	assert.Equal(t, risk.SystemCritical, *resp.System)
}

func TestGetFailureRiskWithErrorMarkerOmitsSystem(t *testing.T) {
	srv := upstreamStub{
		riskBody: `{"error": null}`,
	}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodGet, "/api/v1/failure-risk", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp FailureRiskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.System)
}

func TestGetFailureRiskUnavailable(t *testing.T) {
	srv := upstreamStub{}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodGet, "/api/v1/failure-risk", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetModels(t *testing.T) {
	srv := upstreamStub{}.start(t)

	w := doJSON(newRouter(t, srv.URL), http.MethodGet, "/api/v1/models", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Models []ModelInfo `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 2)
	assert.Equal(t, "good", resp.Models[0].Name)
	assert.Equal(t, "bad", resp.Models[1].Name)
}
