// Package telemetry talks to the upstream model-serving API. It owns every
// network and deserialization failure: callers receive either validated
// results or explicit fallback sentinels, never raw transport errors.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"model-health-api/config"
	"model-health-api/metrics"
	"model-health-api/models"
	"model-health-api/risk"

	"go.uber.org/zap"
)

// Client is the telemetry client. The base URL is injected at construction;
// no call site reads ambient configuration.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	predictTimeout time.Duration
	riskTimeout    time.Duration
	log            *zap.Logger
}

func NewClient(cfg config.UpstreamConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{},
		predictTimeout: cfg.PredictTimeout,
		riskTimeout:    cfg.RiskTimeout,
		log:            log,
	}
}

// predictResponse mirrors the upstream /predict body. Confidence is a
// pointer so a missing field is distinguishable from 0.
type predictResponse struct {
	Prediction int      `json:"prediction"`
	Confidence *float64 `json:"confidence"`
	Latency    float64  `json:"latency"`
	ModelType  string   `json:"model_type"`
}

// Predict scores one feature payload. A single bounded attempt, no retries;
// every failure mode (transport, non-2xx, unreadable body, missing
// confidence) comes back as an error and never as a partial result.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.UpstreamCallDuration.WithLabelValues("predict").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallFailures.WithLabelValues("predict").Inc()
		return nil, fmt.Errorf("predict call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCallFailures.WithLabelValues("predict").Inc()
		return nil, fmt.Errorf("predict returned status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.UpstreamCallFailures.WithLabelValues("predict").Inc()
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if parsed.Confidence == nil {
		metrics.UpstreamCallFailures.WithLabelValues("predict").Inc()
		return nil, fmt.Errorf("predict response missing confidence")
	}

	return &models.PredictionResult{
		Prediction: parsed.Prediction,
		Confidence: *parsed.Confidence,
		Latency:    parsed.Latency,
		ModelType:  parsed.ModelType,
	}, nil
}

// FailureRisk fetches the aggregate failure-risk report. It never returns an
// error: any transport, status, or decode failure becomes the unavailable
// sentinel so the classifier can fall back deterministically.
func (c *Client) FailureRisk(ctx context.Context) risk.ReportResult {
	ctx, cancel := context.WithTimeout(ctx, c.riskTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/failure-risk", nil)
	if err != nil {
		return risk.ReportUnavailable()
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.UpstreamCallDuration.WithLabelValues("failure_risk").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallFailures.WithLabelValues("failure_risk").Inc()
		c.log.Warn("failure-risk call failed", zap.Error(err))
		return risk.ReportUnavailable()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCallFailures.WithLabelValues("failure_risk").Inc()
		c.log.Warn("failure-risk returned non-200", zap.Int("status", resp.StatusCode))
		return risk.ReportUnavailable()
	}

	var report models.FailureRiskReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		metrics.UpstreamCallFailures.WithLabelValues("failure_risk").Inc()
		c.log.Warn("failure-risk body unreadable", zap.Error(err))
		return risk.ReportUnavailable()
	}

	return risk.ReportFrom(&report)
}
