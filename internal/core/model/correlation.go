package model

import "time"

// CorrelationType classifies what kind of shared data links two targets.
type CorrelationType string

const (
	CorrelationEmail    CorrelationType = "email"
	CorrelationPhone    CorrelationType = "phone"
	CorrelationUsername CorrelationType = "username"
	CorrelationIP       CorrelationType = "ip"
	CorrelationAddress  CorrelationType = "address"
	// CorrelationNetwork marks a link backed by more than one field kind.
	CorrelationNetwork CorrelationType = "network"
	CorrelationUnknown CorrelationType = "unknown"
)

// Correlation is a persisted, direction-agnostic relationship between two
// targets. A correlation between (A, B) is the same relationship as (B, A);
// re-analysis updates the existing row rather than creating a mirror.
type Correlation struct {
	UUID        string          `json:"uuid"`
	TargetAUUID string          `json:"target_a_uuid"`
	TargetBUUID string          `json:"target_b_uuid"`
	CaseID      string          `json:"case_id"`
	Type        CorrelationType `json:"correlation_type"`

	// MatchingFields lists the field kinds that matched, in rule
	// evaluation order.
	MatchingFields []string `json:"matching_fields"`

	// Confidence is the clamped 0-100 sum of per-field contributions.
	Confidence int `json:"confidence_score"`

	// SharedData maps each matched field kind to the actual values that
	// intersected, kept for reviewer audit.
	SharedData map[string][]string `json:"shared_data,omitempty"`

	// Verified is set by a human reviewer and survives re-analysis.
	Verified bool `json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CorrelationResult is the outcome of scoring one candidate against the
// primary target. Only results with Confidence > 0 are persisted.
type CorrelationResult struct {
	CandidateUUID  string              `json:"candidate_uuid"`
	Type           CorrelationType     `json:"correlation_type"`
	MatchingFields []string            `json:"matching_fields"`
	Confidence     int                 `json:"confidence_score"`
	SharedData     map[string][]string `json:"shared_data,omitempty"`
}
