package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skeinhq/skein/internal/config"
	"github.com/skeinhq/skein/internal/core/model"
)

func TestSummarizeTarget(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"summary": "Subject uses one email across two breach databases."}`,
	}
	s := NewSummarizer(mockLLM, config.SummaryPrompts{})

	target := model.Target{
		UUID: "t-1",
		Name: "John Doe",
		Collateral: model.Collateral{
			Emails: []string{"j@x.com"},
		},
	}
	correlations := []model.Correlation{
		{TargetAUUID: "t-1", TargetBUUID: "t-2", MatchingFields: []string{"email", "phone"}, Confidence: 55},
	}

	narrative, err := s.SummarizeTarget(context.Background(), target, correlations)

	require.NoError(t, err)
	assert.Equal(t, "Subject uses one email across two breach databases.", narrative)

	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "j@x.com")
	assert.Contains(t, mockLLM.Prompts[0], "linked to subject t-2 via email, phone (confidence 55)")
}

func TestSummarizeNetwork_SmallNetworkSinglePass(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"summary": "Three subjects share a phone number."}`,
	}
	s := NewSummarizer(mockLLM, config.SummaryPrompts{})

	targets := []model.Target{
		{UUID: "1", Name: "A", Collateral: model.Collateral{Phones: []string{"5550102233"}}},
		{UUID: "2", Name: "B", Collateral: model.Collateral{Phones: []string{"5550102233"}}},
	}

	narrative, err := s.SummarizeNetwork(context.Background(), targets)

	require.NoError(t, err)
	assert.Equal(t, "Three subjects share a phone number.", narrative)
	assert.Len(t, mockLLM.Prompts, 1)
}

func TestSummarizeNetwork_LargeNetworkReduces(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"summary": "chunk narrative"}`,
	}
	s := NewSummarizer(mockLLM, config.SummaryPrompts{})

	var targets []model.Target
	for i := 0; i < 45; i++ {
		targets = append(targets, model.Target{
			UUID: strings.Repeat("x", i%5+1),
			Name: "Subject",
			Collateral: model.Collateral{
				Emails: []string{"a@x.com"},
			},
		})
	}

	narrative, err := s.SummarizeNetwork(context.Background(), targets)

	require.NoError(t, err)
	assert.Equal(t, "chunk narrative", narrative)
	// Three chunks of <=20 plus one reduce pass.
	assert.Len(t, mockLLM.Prompts, 4)
}

func TestSummarizeNetwork_FallsBackToRawResponse(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: "A plain text narrative without JSON.",
	}
	s := NewSummarizer(mockLLM, config.SummaryPrompts{})

	narrative, err := s.SummarizeNetwork(context.Background(), []model.Target{
		{UUID: "1", Name: "A", Collateral: model.Collateral{Emails: []string{"a@x.com"}}},
	})

	require.NoError(t, err)
	assert.Equal(t, "A plain text narrative without JSON.", narrative)
}

func TestGenerateNetworkName(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"name": "Shared Phone Ring"}`,
	}
	s := NewSummarizer(mockLLM, config.SummaryPrompts{})

	name, err := s.GenerateNetworkName(context.Background(), "Three subjects share a phone number.")

	require.NoError(t, err)
	assert.Equal(t, "Shared Phone Ring", name)
}

func TestSummarizeTarget_CustomPromptTemplate(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"summary": "ok"}`,
	}
	s := NewSummarizer(mockLLM, config.SummaryPrompts{Target: "CUSTOM: %s"})

	_, err := s.SummarizeTarget(context.Background(), model.Target{UUID: "t-1"}, nil)

	require.NoError(t, err)
	require.Len(t, mockLLM.Prompts, 1)
	assert.True(t, strings.HasPrefix(mockLLM.Prompts[0], "CUSTOM: "))
}
