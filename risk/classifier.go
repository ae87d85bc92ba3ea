// Package risk implements the model health classifier: the rule set that
// turns a failure-risk report (or its absence) into a display verdict with a
// progress signal and a degradation breakdown.
package risk

import (
	"math"

	"model-health-api/models"
)

// Tier identifies which input a verdict was derived from.
type Tier string

const (
	// TierTelemetry means the verdict came from a usable failure-risk report.
	TierTelemetry Tier = "TELEMETRY"
	// TierConfidenceFallback means the report was unusable or unavailable and
	// the verdict was derived from the prediction confidence alone.
	TierConfidenceFallback Tier = "CONFIDENCE_FALLBACK"
)

// FallbackCause records why the confidence fallback was taken. Verdicts from
// the two fallback paths are otherwise identical.
type FallbackCause string

const (
	CauseUpstreamError    FallbackCause = "upstream_error"
	CauseTransportFailure FallbackCause = "transport_failure"
)

// Level is the display risk level for a single prediction.
type Level string

const (
	LevelHealthy  Level = "HEALTHY"
	LevelRisky    Level = "RISKY"
	LevelCritical Level = "CRITICAL"
)

// SystemLevel is the display health of the serving system as a whole.
type SystemLevel string

const (
	SystemHealthy  SystemLevel = "HEALTHY"
	SystemAtRisk   SystemLevel = "AT_RISK"
	SystemCritical SystemLevel = "CRITICAL"
)

// Confidence boundaries for the fallback tiers. The presentation layer
// depends on these exact values; both fallback causes share them.
const (
	healthyConfidence = 0.75
	riskyConfidence   = 0.5
)

// Failure-probability boundaries for system-wide health.
const (
	systemAtRiskProbability   = 0.3
	systemCriticalProbability = 0.7
)

// Breakdown exposes the per-metric values behind a verdict. Metrics absent
// from the upstream payload stay at zero; an absent risk string reads
// "UNKNOWN".
type Breakdown struct {
	Confidence     float64 `json:"confidence"`
	ConfidenceDrop float64 `json:"confidence_drop"`
	PSIIncrease    float64 `json:"psi_increase"`
	RiskLevel      string  `json:"risk_level"`
}

// Verdict is the classifier output: one per submission, never persisted.
type Verdict struct {
	Tier          Tier          `json:"tier"`
	FallbackCause FallbackCause `json:"fallback_cause,omitempty"`
	Level         Level         `json:"level"`
	Progress      float64       `json:"progress"`
	Breakdown     Breakdown     `json:"breakdown"`
}

// ReportResult is the outcome of the failure-risk call: either a parsed
// report or the explicit unavailable sentinel. The telemetry client resolves
// every transport fault into this shape, so Classify is total and never
// observes an error.
type ReportResult struct {
	Report      *models.FailureRiskReport
	Unavailable bool
}

// ReportFrom wraps a successfully fetched report.
func ReportFrom(r *models.FailureRiskReport) ReportResult {
	return ReportResult{Report: r}
}

// ReportUnavailable is the sentinel for a failed or unreadable report call.
func ReportUnavailable() ReportResult {
	return ReportResult{Unavailable: true}
}

// Classify maps one prediction and the failure-risk outcome to a verdict.
// Tier precedence, first match wins: usable telemetry, then the confidence
// fallback for an upstream-declared error, then the same fallback for an
// unreachable upstream.
func Classify(pred models.PredictionResult, rep ReportResult) Verdict {
	if rep.Report != nil && !rep.Unavailable && !rep.Report.HasError() {
		return telemetryVerdict(pred, rep.Report)
	}
	cause := CauseTransportFailure
	if rep.Report != nil && !rep.Unavailable {
		cause = CauseUpstreamError
	}
	return fallbackVerdict(pred, cause)
}

func telemetryVerdict(pred models.PredictionResult, report *models.FailureRiskReport) Verdict {
	var level Level
	switch report.Risk {
	case "HIGH":
		level = LevelCritical
	case "MEDIUM":
		level = LevelRisky
	default:
		// LOW, UNKNOWN, or anything unexpected reads healthy
		level = LevelHealthy
	}

	progress := pred.Confidence
	if report.Degradation.OverallDegradation > 0 {
		progress = report.Degradation.OverallDegradation
	}

	riskLabel := report.Risk
	if riskLabel == "" {
		riskLabel = "UNKNOWN"
	}

	return Verdict{
		Tier:     TierTelemetry,
		Level:    level,
		Progress: clamp01(progress),
		Breakdown: Breakdown{
			Confidence:     pred.Confidence,
			ConfidenceDrop: report.Degradation.ConfidenceDrop,
			PSIIncrease:    report.Degradation.PSIIncrease,
			RiskLevel:      riskLabel,
		},
	}
}

func fallbackVerdict(pred models.PredictionResult, cause FallbackCause) Verdict {
	level := levelFromConfidence(pred.Confidence)
	return Verdict{
		Tier:          TierConfidenceFallback,
		FallbackCause: cause,
		Level:         level,
		Progress:      clamp01(pred.Confidence),
		Breakdown: Breakdown{
			Confidence: pred.Confidence,
			RiskLevel:  fallbackRiskLabel(level),
		},
	}
}

// levelFromConfidence is the canonical confidence rule shared by both
// fallback causes. Boundaries are exclusive on the high side: 0.75 is RISKY
// and 0.5 is CRITICAL.
func levelFromConfidence(confidence float64) Level {
	switch {
	case confidence > healthyConfidence:
		return LevelHealthy
	case confidence > riskyConfidence:
		return LevelRisky
	default:
		return LevelCritical
	}
}

func fallbackRiskLabel(level Level) string {
	switch level {
	case LevelHealthy:
		return "LOW"
	case LevelRisky:
		return "MEDIUM"
	default:
		return "HIGH"
	}
}

// ClassifySystem rates the serving system as a whole from its aggregate
// failure probability. This is a separate verdict from the per-prediction
// tiers and may legitimately disagree with them.
func ClassifySystem(failureProbability float64) SystemLevel {
	switch {
	case failureProbability < systemAtRiskProbability:
		return SystemHealthy
	case failureProbability < systemCriticalProbability:
		return SystemAtRisk
	default:
		return SystemCritical
	}
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
