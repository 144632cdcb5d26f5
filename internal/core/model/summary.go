package model

// NarrativeSummary is the JSON shell the summarizer expects back from the
// LLM for a single target or a linked network.
type NarrativeSummary struct {
	Summary string `json:"summary"`
}

// NetworkName is the JSON shell for a generated network display name.
type NetworkName struct {
	Name string `json:"name"`
}

// LinkedNetwork is a cluster of targets connected through stored
// correlations, plus optional generated annotations.
type LinkedNetwork struct {
	Name    string   `json:"name,omitempty"`
	Targets []Target `json:"targets"`
	Summary string   `json:"summary,omitempty"`
}
