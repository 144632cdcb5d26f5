//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skeinhq/skein/internal/config"
	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/core/summary"
	"github.com/skeinhq/skein/internal/llm"
)

// TestNetworkSummaryAgainstLiveLLM exercises the real provider path.
// Needs LLM_PROVIDER (plus key/model) in the environment.
func TestNetworkSummaryAgainstLiveLLM(t *testing.T) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		t.Skip("Skipping LLM integration test: LLM_PROVIDER not set")
	}

	cfg := config.LLMConfig{
		Provider: provider,
		Model:    os.Getenv("LLM_MODEL"),
		APIKey:   os.Getenv("LLM_API_KEY"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}
	client, err := llm.NewClient(context.Background(), cfg)
	require.NoError(t, err)

	s := summary.NewSummarizer(client, config.SummaryPrompts{})

	targets := []model.Target{
		{
			UUID: "t-1", Name: "John Smith",
			Collateral: model.Collateral{
				Emails: []string{"jsmith@example.com"},
				Phones: []string{"15551234567"},
			},
		},
		{
			UUID: "t-2", Name: "Maria Lopez",
			Collateral: model.Collateral{
				Phones: []string{"15551234567"},
			},
		},
	}

	text, err := s.SummarizeNetwork(context.Background(), targets)
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	name, err := s.GenerateNetworkName(context.Background(), text)
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}
