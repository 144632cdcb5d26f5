package model

// SocialProfile is one social-media handle pulled from a raw result row.
// (Platform, Username) is unique within a record's profile list.
type SocialProfile struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	URL      string `json:"url,omitempty"`
}

// ResultRow is one raw row returned by an upstream search provider.
// Fields holds the provider's original key/value pairs; Source identifies
// which upstream database produced the row.
type ResultRow struct {
	Source string                 `json:"source"`
	Fields map[string]interface{} `json:"fields"`
}

// ExtractedRecord is one candidate identity fragment pulled from a single
// result row. All scalar fields are optional; an empty string means the
// field was not present in the source row. Records are immutable once
// built; consolidation produces a new record, it never mutates members.
type ExtractedRecord struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	IP       string `json:"ip,omitempty"`
	Address  string `json:"address,omitempty"`

	SocialProfiles []SocialProfile `json:"social_profiles,omitempty"`

	// RawData carries the original key/value pairs plus a "source" tag
	// for provenance.
	RawData map[string]interface{} `json:"raw_data,omitempty"`
}

// Empty reports whether the record carries no identity signal at all.
// Empty records are dropped by the extractor before matching.
func (r ExtractedRecord) Empty() bool {
	return r.Email == "" &&
		r.Phone == "" &&
		r.Name == "" &&
		r.Username == "" &&
		r.Password == "" &&
		r.IP == "" &&
		r.Address == "" &&
		len(r.SocialProfiles) == 0
}
