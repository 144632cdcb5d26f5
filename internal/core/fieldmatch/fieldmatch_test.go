package fieldmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skeinhq/skein/internal/core/model"
)

func TestScore_EmailExact(t *testing.T) {
	a := model.ExtractedRecord{Email: "J@X.com"}
	b := model.ExtractedRecord{Email: "j@x.com"}

	s := Score(a, b)

	assert.Equal(t, EmailWeight, s.Confidence)
	assert.Equal(t, []string{ReasonEmail}, s.Reasons)
	assert.True(t, s.IsMatch())
}

func TestScore_PhoneNormalized(t *testing.T) {
	a := model.ExtractedRecord{Phone: "+1 (555) 010-2233"}
	b := model.ExtractedRecord{Phone: "15550102233"}

	s := Score(a, b)

	assert.Equal(t, PhoneWeight, s.Confidence)
	assert.Equal(t, "phone", s.Reason())
}

func TestScore_PhoneTooShort(t *testing.T) {
	// Normalized values match but fall under the digit floor.
	a := model.ExtractedRecord{Phone: "555-1234"}
	b := model.ExtractedRecord{Phone: "5551234"}

	s := Score(a, b)

	assert.Equal(t, 0, s.Confidence)
	assert.False(t, s.IsMatch())
}

func TestScore_NameExactVsPartial(t *testing.T) {
	exact := Score(
		model.ExtractedRecord{Name: " John Doe "},
		model.ExtractedRecord{Name: "john doe"},
	)
	assert.Equal(t, NameExactWeight, exact.Confidence)
	assert.Equal(t, []string{ReasonName}, exact.Reasons)

	partial := Score(
		model.ExtractedRecord{Name: "John Doe"},
		model.ExtractedRecord{Name: "Johnathan Doering"},
	)
	assert.Equal(t, NamePartialWeight, partial.Confidence)
	assert.Equal(t, []string{ReasonNamePartial}, partial.Reasons)
	assert.False(t, partial.IsMatch())
}

func TestScore_AddressExactVsPartial(t *testing.T) {
	exact := Score(
		model.ExtractedRecord{Address: "12 Elm St, Springfield"},
		model.ExtractedRecord{Address: "12 elm st, springfield"},
	)
	assert.Equal(t, AddressExactWeight, exact.Confidence)
	assert.True(t, exact.IsMatch())

	partial := Score(
		model.ExtractedRecord{Address: "12 Elm St, Springfield, IL"},
		model.ExtractedRecord{Address: "Apt 4, Springfield"},
	)
	assert.Equal(t, AddressPartialWeight, partial.Confidence)
	assert.Equal(t, []string{ReasonAddressPartial}, partial.Reasons)
}

func TestScore_IPAloneBelowThreshold(t *testing.T) {
	s := Score(
		model.ExtractedRecord{IP: "10.0.0.1"},
		model.ExtractedRecord{IP: "10.0.0.1"},
	)

	assert.Equal(t, IPWeight, s.Confidence)
	assert.False(t, s.IsMatch())
}

func TestScore_TwoWeakSignalsMatch(t *testing.T) {
	s := Score(
		model.ExtractedRecord{IP: "10.0.0.1", Address: "Elm St, Springfield, IL"},
		model.ExtractedRecord{IP: "10.0.0.1", Address: "Springfield"},
	)

	assert.Equal(t, IPWeight+AddressPartialWeight, s.Confidence)
	assert.True(t, s.IsMatch())
	assert.Equal(t, "ip,address_partial", s.Reason())
}

func TestScore_ReasonOrderFollowsRuleTable(t *testing.T) {
	a := model.ExtractedRecord{
		Email:    "j@x.com",
		Phone:    "555-010-2233",
		Username: "jdoe",
		Name:     "John Doe",
		IP:       "10.0.0.1",
		Address:  "12 Elm St",
	}

	s := Score(a, a)

	assert.Equal(t, []string{
		ReasonEmail, ReasonPhone, ReasonUsername, ReasonName, ReasonIP, ReasonAddress,
	}, s.Reasons)
	assert.Equal(t, MaxConfidence, s.Confidence)
}

func TestScore_ClampAt100(t *testing.T) {
	a := model.ExtractedRecord{Email: "j@x.com", Phone: "555-010-2233", Username: "jdoe"}

	s := Score(a, a)

	// 50 + 40 + 30 would be 120 unclamped.
	assert.Equal(t, MaxConfidence, s.Confidence)
}

func TestScore_Symmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b model.ExtractedRecord
	}{
		{"email", model.ExtractedRecord{Email: "a@x.com"}, model.ExtractedRecord{Email: "A@X.COM"}},
		{"phone", model.ExtractedRecord{Phone: "555 010 2233"}, model.ExtractedRecord{Phone: "5550102233"}},
		{"username", model.ExtractedRecord{Username: "JDoe"}, model.ExtractedRecord{Username: "jdoe"}},
		{"name_partial", model.ExtractedRecord{Name: "John Doe"}, model.ExtractedRecord{Name: "J. Doering"}},
		{"ip", model.ExtractedRecord{IP: "10.0.0.1"}, model.ExtractedRecord{IP: "10.0.0.1"}},
		{"address_partial", model.ExtractedRecord{Address: "Elm St, Springfield"}, model.ExtractedRecord{Address: "Springfield, IL"}},
		{"mixed", model.ExtractedRecord{Email: "a@x.com", IP: "10.0.0.1"}, model.ExtractedRecord{Email: "a@x.com", IP: "10.0.0.1"}},
	}

	for _, tc := range pairs {
		fwd := Score(tc.a, tc.b)
		rev := Score(tc.b, tc.a)
		assert.Equal(t, fwd.Confidence, rev.Confidence, tc.name)
		assert.Equal(t, fwd.IsMatch(), rev.IsMatch(), tc.name)
	}
}

func TestScore_MissingFieldsContributeNothing(t *testing.T) {
	s := Score(model.ExtractedRecord{}, model.ExtractedRecord{Email: "a@x.com", IP: "10.0.0.1"})

	assert.Equal(t, 0, s.Confidence)
	assert.Empty(t, s.Reasons)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "15550102233", NormalizePhone("+1 (555) 010-2233"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}
