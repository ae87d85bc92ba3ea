package handlers

import (
	"context"
	"net/http"
	"time"

	"model-health-api/metrics"
	"model-health-api/models"
	"model-health-api/risk"
	"model-health-api/services"
	"model-health-api/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictionHandler struct {
	client *telemetry.Client
	cache  *services.CacheService
	log    *zap.Logger
}

func NewPredictionHandler(client *telemetry.Client, cache *services.CacheService, log *zap.Logger) *PredictionHandler {
	return &PredictionHandler{client: client, cache: cache, log: log}
}

// DashboardResponse is everything the dashboard renders after one
// submission: the raw prediction, the per-prediction health verdict, and
// the system-wide health when a usable report was available.
type DashboardResponse struct {
	Prediction models.PredictionResult `json:"prediction"`
	Health     risk.Verdict            `json:"health"`
	System     *SystemHealth           `json:"system,omitempty"`
}

type SystemHealth struct {
	Level              risk.SystemLevel `json:"level"`
	FailureProbability float64          `json:"failure_probability"`
	AvgConfidence      float64          `json:"avg_confidence"`
}

// VerdictEvent is what live dashboard connections receive per submission.
type VerdictEvent struct {
	Type      string       `json:"type"`
	ModelType string       `json:"model_type"`
	Verdict   risk.Verdict `json:"verdict"`
	TS        time.Time    `json:"ts"`
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.Predict(c.Request.Context(), req)
	if err != nil {
		h.log.Error("predict call failed", zap.String("model", req.ModelType), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "prediction service unavailable"})
		return
	}

	outcome := h.fetchReport(c.Request.Context())
	verdict := risk.Classify(*result, outcome)
	metrics.ClassificationsTotal.WithLabelValues(string(verdict.Tier), string(verdict.Level)).Inc()

	resp := DashboardResponse{Prediction: *result, Health: verdict}
	if outcome.Report != nil && !outcome.Report.HasError() {
		resp.System = &SystemHealth{
			Level:              risk.ClassifySystem(outcome.Report.FailureProbability),
			FailureProbability: outcome.Report.FailureProbability,
			AvgConfidence:      outcome.Report.Metrics.AvgConfidence,
		}
	}

	go h.publishVerdict(result.ModelType, verdict)

	c.JSON(http.StatusOK, resp)
}

// fetchReport serves the failure-risk outcome cache-first, falling through to
// the live call on any miss or Redis error. Only usable reports are cached;
// errored and unavailable outcomes are always re-fetched.
func (h *PredictionHandler) fetchReport(ctx context.Context) risk.ReportResult {
	var cached models.FailureRiskReport
	if err := h.cache.Get(ctx, services.ReportCacheKey, &cached); err == nil {
		return risk.ReportFrom(&cached)
	}

	outcome := h.client.FailureRisk(ctx)
	if outcome.Report != nil && !outcome.Report.HasError() {
		go h.cache.Set(context.Background(), services.ReportCacheKey, outcome.Report, services.ReportCacheTTL)
	}
	return outcome
}

func (h *PredictionHandler) publishVerdict(modelType string, verdict risk.Verdict) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	event := VerdictEvent{
		Type:      "verdict",
		ModelType: modelType,
		Verdict:   verdict,
		TS:        time.Now().UTC(),
	}
	if err := h.cache.Publish(ctx, services.VerdictChannel, event); err != nil {
		h.log.Warn("verdict publish failed", zap.Error(err))
		return
	}
	metrics.VerdictsPublished.Inc()
}
