package handlers

import (
	"context"
	"net/http"

	"model-health-api/models"
	"model-health-api/risk"
	"model-health-api/services"
	"model-health-api/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RiskHandler struct {
	client *telemetry.Client
	cache  *services.CacheService
	log    *zap.Logger
}

func NewRiskHandler(client *telemetry.Client, cache *services.CacheService, log *zap.Logger) *RiskHandler {
	return &RiskHandler{client: client, cache: cache, log: log}
}

// FailureRiskResponse relays the upstream report with the system-wide
// classification applied. System is omitted when the report carries the
// upstream error marker.
type FailureRiskResponse struct {
	Report *models.FailureRiskReport `json:"report"`
	System *risk.SystemLevel         `json:"system,omitempty"`
}

func (h *RiskHandler) GetFailureRisk(c *gin.Context) {
	var cached models.FailureRiskReport
	if err := h.cache.Get(c.Request.Context(), services.ReportCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, buildRiskResponse(&cached))
		return
	}

	outcome := h.client.FailureRisk(c.Request.Context())
	if outcome.Unavailable {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failure-risk service unavailable"})
		return
	}

	if !outcome.Report.HasError() {
		go h.cache.Set(context.Background(), services.ReportCacheKey, outcome.Report, services.ReportCacheTTL)
	}

	c.JSON(http.StatusOK, buildRiskResponse(outcome.Report))
}

func buildRiskResponse(report *models.FailureRiskReport) FailureRiskResponse {
	resp := FailureRiskResponse{Report: report}
	if !report.HasError() {
		level := risk.ClassifySystem(report.FailureProbability)
		resp.System = &level
	}
	return resp
}
