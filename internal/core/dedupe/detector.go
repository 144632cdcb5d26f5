// Package dedupe groups likely-duplicate extracted records within one
// search-result batch and consolidates each group into a single record.
package dedupe

import (
	"github.com/skeinhq/skein/internal/core/fieldmatch"
	"github.com/skeinhq/skein/internal/core/model"
)

// MatchDetector partitions a batch of extracted records into groups of
// likely duplicates using the fieldmatch rule table.
type MatchDetector struct{}

func NewMatchDetector() *MatchDetector {
	return &MatchDetector{}
}

// FindGroups runs a greedy single pass over the records: each unprocessed
// record becomes an anchor, and every later unprocessed record that
// matches the anchor joins its group. Members are only ever compared
// against the anchor, never against each other, so two records that both
// match the anchor land in the same group regardless of their mutual
// similarity. This is deliberately not a transitive closure; downstream
// consumers depend on group membership exactly as produced.
//
// Singletons are not reported; every returned group has at least two
// members. An empty result is a valid outcome, not an error.
func (d *MatchDetector) FindGroups(records []model.ExtractedRecord) []model.MatchGroup {
	processed := make(map[int]bool)
	var groups []model.MatchGroup

	for i := 0; i < len(records); i++ {
		if processed[i] {
			continue
		}

		members := []int{i}
		confidence := 0
		reason := ""

		for j := i + 1; j < len(records); j++ {
			if processed[j] {
				continue
			}
			score := fieldmatch.Score(records[i], records[j])
			if !score.IsMatch() {
				continue
			}
			members = append(members, j)
			processed[j] = true
			if score.Confidence > confidence {
				confidence = score.Confidence
			}
			if reason == "" {
				reason = score.Reason()
			}
		}

		if len(members) > 1 {
			groups = append(groups, model.MatchGroup{
				MemberIndices: members,
				Confidence:    confidence,
				MatchReason:   reason,
			})
			processed[i] = true
		}
	}

	return groups
}
