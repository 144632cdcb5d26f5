package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skeinhq/skein/internal/core/model"
)

func TestFindGroups_SharedEmail(t *testing.T) {
	records := []model.ExtractedRecord{
		{Email: "j@x.com", Name: "John Doe"},
		{Email: "j@x.com", Phone: "555-1234"},
		{Name: "Jane Smith"},
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Len(t, groups, 1)
	assert.Equal(t, []int{0, 1}, groups[0].MemberIndices)
	assert.Equal(t, 50, groups[0].Confidence)
	assert.Equal(t, "email", groups[0].MatchReason)
}

func TestFindGroups_AnchorOnlyNotTransitive(t *testing.T) {
	// B matches A on email, C matches A on phone, but B and C share
	// nothing. All three still land in A's group because members are
	// only compared against the anchor.
	records := []model.ExtractedRecord{
		{Email: "a@x.com", Phone: "555-010-2233"}, // A
		{Email: "a@x.com"},                        // B
		{Phone: "(555) 010-2233"},                 // C
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Len(t, groups, 1)
	assert.Equal(t, []int{0, 1, 2}, groups[0].MemberIndices)
	// First discovered reason only, even though C matched on phone.
	assert.Equal(t, "email", groups[0].MatchReason)
}

func TestFindGroups_ConfidenceIsMaxObserved(t *testing.T) {
	records := []model.ExtractedRecord{
		{Email: "a@x.com", Username: "jdoe"}, // anchor
		{Username: "JDOE"},                   // 30
		{Email: "a@x.com", Username: "jdoe"}, // 80
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Len(t, groups, 1)
	assert.Equal(t, 80, groups[0].Confidence)
	assert.Equal(t, "username", groups[0].MatchReason)
}

func TestFindGroups_ProcessedMembersSkipAnchoring(t *testing.T) {
	// Records 1 and 2 both join group 0; neither may seed a second group.
	records := []model.ExtractedRecord{
		{Email: "a@x.com"},
		{Email: "a@x.com", Username: "jdoe"},
		{Email: "a@x.com"},
		{Username: "someone-else"},
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Len(t, groups, 1)
	assert.Equal(t, []int{0, 1, 2}, groups[0].MemberIndices)
}

func TestFindGroups_MultipleGroups(t *testing.T) {
	records := []model.ExtractedRecord{
		{Email: "a@x.com"},
		{Email: "b@x.com"},
		{Email: "a@x.com"},
		{Email: "b@x.com"},
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Len(t, groups, 2)
	assert.Equal(t, []int{0, 2}, groups[0].MemberIndices)
	assert.Equal(t, []int{1, 3}, groups[1].MemberIndices)
}

func TestFindGroups_NoMatchesIsEmptyNotError(t *testing.T) {
	records := []model.ExtractedRecord{
		{Email: "a@x.com"},
		{Email: "b@y.com"},
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Empty(t, groups)
}

func TestFindGroups_WeakSignalAloneDoesNotGroup(t *testing.T) {
	records := []model.ExtractedRecord{
		{IP: "10.0.0.1"},
		{IP: "10.0.0.1"},
	}

	groups := NewMatchDetector().FindGroups(records)

	assert.Empty(t, groups)
}

func TestFindGroups_EmptyInput(t *testing.T) {
	assert.Empty(t, NewMatchDetector().FindGroups(nil))
}
