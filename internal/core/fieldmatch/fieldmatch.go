// Package fieldmatch defines the per-field normalization and comparison
// rules shared by duplicate detection and cross-target correlation. The
// weight table here is the single source of truth for pairwise scoring.
package fieldmatch

import (
	"strings"

	"github.com/skeinhq/skein/internal/core/model"
)

// Weights contributed by each field rule when it matches. Confidence for a
// pair is the clamped sum of every contributing rule.
const (
	EmailWeight          = 50
	PhoneWeight          = 40
	UsernameWeight       = 30
	NameExactWeight      = 35
	NamePartialWeight    = 20
	IPWeight             = 25
	AddressExactWeight   = 30
	AddressPartialWeight = 15

	// MatchThreshold is the minimum confidence for a pair to count as a
	// duplicate. A single weak signal (e.g. IP alone at 25) is not enough;
	// two weak signals or one strong one is.
	MatchThreshold = 30

	MaxConfidence = 100

	// MinPhoneDigits guards against matching on short junk values after
	// normalization strips formatting.
	MinPhoneDigits = 8
)

// Reason tokens, emitted in rule evaluation order.
const (
	ReasonEmail          = "email"
	ReasonPhone          = "phone"
	ReasonUsername       = "username"
	ReasonName           = "name"
	ReasonNamePartial    = "name_partial"
	ReasonIP             = "ip"
	ReasonAddress        = "address"
	ReasonAddressPartial = "address_partial"
)

// PairScore is the outcome of comparing two records field by field.
type PairScore struct {
	Confidence int
	Reasons    []string
}

// IsMatch reports whether the pair clears the duplicate threshold.
func (s PairScore) IsMatch() bool {
	return s.Confidence >= MatchThreshold
}

// Reason joins the contributing field kinds in evaluation order.
func (s PairScore) Reason() string {
	return strings.Join(s.Reasons, ",")
}

// Score evaluates every field rule independently and sums the weights of
// the ones that match. Absent fields on either side contribute nothing;
// the comparison never fails on malformed input.
func Score(a, b model.ExtractedRecord) PairScore {
	var score PairScore

	if a.Email != "" && b.Email != "" && strings.EqualFold(a.Email, b.Email) {
		score.Confidence += EmailWeight
		score.Reasons = append(score.Reasons, ReasonEmail)
	}

	if pa, pb := NormalizePhone(a.Phone), NormalizePhone(b.Phone); len(pa) >= MinPhoneDigits && pa == pb {
		score.Confidence += PhoneWeight
		score.Reasons = append(score.Reasons, ReasonPhone)
	}

	if a.Username != "" && b.Username != "" && strings.EqualFold(a.Username, b.Username) {
		score.Confidence += UsernameWeight
		score.Reasons = append(score.Reasons, ReasonUsername)
	}

	if a.Name != "" && b.Name != "" {
		na, nb := strings.TrimSpace(a.Name), strings.TrimSpace(b.Name)
		if strings.EqualFold(na, nb) {
			score.Confidence += NameExactWeight
			score.Reasons = append(score.Reasons, ReasonName)
		} else if namesOverlap(na, nb) {
			score.Confidence += NamePartialWeight
			score.Reasons = append(score.Reasons, ReasonNamePartial)
		}
	}

	if a.IP != "" && a.IP == b.IP {
		score.Confidence += IPWeight
		score.Reasons = append(score.Reasons, ReasonIP)
	}

	if a.Address != "" && b.Address != "" {
		if strings.EqualFold(a.Address, b.Address) {
			score.Confidence += AddressExactWeight
			score.Reasons = append(score.Reasons, ReasonAddress)
		} else if addressesOverlap(a.Address, b.Address) {
			score.Confidence += AddressPartialWeight
			score.Reasons = append(score.Reasons, ReasonAddressPartial)
		}
	}

	if score.Confidence > MaxConfidence {
		score.Confidence = MaxConfidence
	}

	return score
}

// NormalizePhone strips everything but digits so that formatting
// variants of the same number compare equal.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// namesOverlap reports whether any whitespace-split token of one name is
// a substring of the other name, case-insensitively. Symmetric.
func namesOverlap(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, tok := range strings.Fields(la) {
		if strings.Contains(lb, tok) {
			return true
		}
	}
	for _, tok := range strings.Fields(lb) {
		if strings.Contains(la, tok) {
			return true
		}
	}
	return false
}

// addressesOverlap splits both addresses on commas and reports whether
// any trimmed segment of one is a substring of any segment of the other.
func addressesOverlap(a, b string) bool {
	segsA := addressSegments(a)
	segsB := addressSegments(b)
	for _, sa := range segsA {
		for _, sb := range segsB {
			if strings.Contains(sa, sb) || strings.Contains(sb, sa) {
				return true
			}
		}
	}
	return false
}

func addressSegments(s string) []string {
	var segs []string
	for _, seg := range strings.Split(strings.ToLower(s), ",") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
