package models

import "encoding/json"

// DegradationMetrics carries the upstream-computed drift deltas. All fields
// are optional on the wire; absent values decode to zero.
type DegradationMetrics struct {
	OverallDegradation float64 `json:"overall_degradation"`
	ConfidenceDrop     float64 `json:"confidence_drop"`
	PSIIncrease        float64 `json:"psi_increase"`
}

// ReportMetrics holds aggregate serving stats; display only, never used for
// classification.
type ReportMetrics struct {
	AvgConfidence float64 `json:"avg_confidence"`
}

// FailureRiskReport is the upstream failure-risk assessment. The error field
// is significant by presence alone: upstream sets it (with any value,
// including null) when it could not compute degradation, and its presence
// invalidates risk and degradation for decision purposes.
type FailureRiskReport struct {
	Error              json.RawMessage    `json:"error,omitempty"`
	Risk               string             `json:"risk"`
	Degradation        DegradationMetrics `json:"degradation"`
	FailureProbability float64            `json:"failure_probability"`
	Metrics            ReportMetrics      `json:"metrics"`
}

// HasError reports whether upstream declared the assessment unusable.
func (r *FailureRiskReport) HasError() bool {
	return len(r.Error) > 0
}
