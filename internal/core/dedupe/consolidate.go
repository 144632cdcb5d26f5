package dedupe

import (
	"github.com/skeinhq/skein/internal/core/model"
)

// Consolidator merges the member records of one match group into a single
// record.
type Consolidator struct{}

func NewConsolidator() *Consolidator {
	return &Consolidator{}
}

// Merge combines the members in list order and returns a new record; the
// inputs are never mutated. Scalar fields keep the first non-empty value
// seen. Social profiles are unioned with (platform, username) as the key,
// first occurrence's URL winning. RawData is shallow-merged left to right,
// so later members overwrite earlier ones on key collision, the opposite
// policy from the scalar fields.
//
// Calling Merge with no members is a caller bug and panics; a one-member
// group is a valid degenerate case.
func (c *Consolidator) Merge(members []model.ExtractedRecord) model.ExtractedRecord {
	if len(members) == 0 {
		panic("dedupe: Merge called with no members")
	}

	var merged model.ExtractedRecord
	seenProfiles := make(map[[2]string]bool)

	for _, m := range members {
		if merged.Email == "" {
			merged.Email = m.Email
		}
		if merged.Phone == "" {
			merged.Phone = m.Phone
		}
		if merged.Name == "" {
			merged.Name = m.Name
		}
		if merged.Username == "" {
			merged.Username = m.Username
		}
		if merged.Password == "" {
			merged.Password = m.Password
		}
		if merged.IP == "" {
			merged.IP = m.IP
		}
		if merged.Address == "" {
			merged.Address = m.Address
		}

		for _, p := range m.SocialProfiles {
			key := [2]string{p.Platform, p.Username}
			if seenProfiles[key] {
				continue
			}
			seenProfiles[key] = true
			merged.SocialProfiles = append(merged.SocialProfiles, p)
		}

		if len(m.RawData) > 0 {
			if merged.RawData == nil {
				merged.RawData = make(map[string]interface{}, len(m.RawData))
			}
			for k, v := range m.RawData {
				merged.RawData[k] = v
			}
		}
	}

	return merged
}
