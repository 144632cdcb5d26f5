package model

import "time"

// Collateral is the flattened per-target view fed into correlation
// scoring: every email, phone, username, IP and address attached to the
// target, collected across credentials, social profiles and network rows.
type Collateral struct {
	Emails    []string `json:"emails,omitempty"`
	Phones    []string `json:"phones,omitempty"`
	Usernames []string `json:"usernames,omitempty"`
	IPs       []string `json:"ips,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// Target is a persisted identity inside a case file, produced by
// consolidating one MatchGroup of extracted records.
type Target struct {
	UUID       string     `json:"uuid"`
	CaseID     string     `json:"case_id"`
	Name       string     `json:"name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Collateral Collateral `json:"collateral"`

	// Sources lists the upstream databases the target's records came from.
	Sources []string `json:"sources,omitempty"`

	// Summary is an optional LLM-generated narrative for reviewers.
	Summary string `json:"summary,omitempty"`
}
