package model

// MatchGroup is a cluster of record indices judged to describe the same
// identity within one extraction batch.
type MatchGroup struct {
	// MemberIndices point into the original input slice. The first
	// element is the anchor the other members matched against.
	MemberIndices []int `json:"member_indices"`

	// Confidence is the highest pairwise confidence observed among the
	// matches that formed the group (0-100).
	Confidence int `json:"confidence"`

	// MatchReason is a comma-joined list of the field kinds behind the
	// first match found for the group.
	MatchReason string `json:"match_reason"`
}
