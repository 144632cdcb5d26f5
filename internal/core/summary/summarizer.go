// Package summary generates investigator-facing narratives for targets
// and linked networks. Everything here is optional: the correlation core
// functions with no LLM configured.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/skeinhq/skein/internal/config"
	"github.com/skeinhq/skein/internal/core/common"
	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/llm"
)

const defaultTargetPrompt = `You are assisting a case investigator. Write a short, factual narrative
summary of the subject below. Do not speculate beyond the listed data.

%s

Return a JSON object: {"summary": "..."}`

const defaultNetworkPrompt = `You are assisting a case investigator. The subjects below are linked by
shared identity data. Write a short, factual narrative of the group and
what connects its members. Do not speculate beyond the listed data.

%s

Return a JSON object: {"summary": "..."}`

const defaultNetworkNamePrompt = `Suggest a short working label (3 words or fewer) for the investigation
lead described below.

%s

Return a JSON object: {"name": "..."}`

type Summarizer struct {
	LLM     llm.LLMClient
	Prompts config.SummaryPrompts
}

func NewSummarizer(llmClient llm.LLMClient, prompts config.SummaryPrompts) *Summarizer {
	return &Summarizer{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// SummarizeTarget narrates one target from its collateral and stored
// correlations.
func (s *Summarizer) SummarizeTarget(ctx context.Context, target model.Target, correlations []model.Correlation) (string, error) {
	sheet := targetFactSheet(target)
	for _, c := range correlations {
		other := c.TargetBUUID
		if other == target.UUID {
			other = c.TargetAUUID
		}
		sheet += fmt.Sprintf("- linked to subject %s via %s (confidence %d)\n",
			other, strings.Join(c.MatchingFields, ", "), c.Confidence)
	}

	promptTemplate := s.Prompts.Target
	if promptTemplate == "" {
		promptTemplate = defaultTargetPrompt
	}

	response, err := s.LLM.Generate(ctx, fmt.Sprintf(promptTemplate, sheet))
	if err != nil {
		return "", fmt.Errorf("failed to generate target summary: %w", err)
	}

	result, err := common.ParseJSON[model.NarrativeSummary](response)
	if err != nil {
		return "", fmt.Errorf("failed to parse summary result: %w", err)
	}

	return result.Summary, nil
}

// SummarizeNetwork narrates a linked network. Large networks are reduced
// in chunks and the intermediate narratives summarized again.
func (s *Summarizer) SummarizeNetwork(ctx context.Context, targets []model.Target) (string, error) {
	const ChunkSize = 20

	if len(targets) <= ChunkSize {
		sheet := ""
		for _, t := range targets {
			sheet += targetFactSheet(t)
		}
		if sheet == "" {
			return "No significant information.", nil
		}

		promptTemplate := s.Prompts.Network
		if promptTemplate == "" {
			promptTemplate = defaultNetworkPrompt
		}

		response, err := s.LLM.Generate(ctx, fmt.Sprintf(promptTemplate, sheet))
		if err != nil {
			return "", fmt.Errorf("failed to generate network summary: %w", err)
		}

		result, err := common.ParseJSON[model.NarrativeSummary](response)
		if err == nil {
			return result.Summary, nil
		}
		return response, nil
	}

	var chunks [][]model.Target
	for i := 0; i < len(targets); i += ChunkSize {
		end := i + ChunkSize
		if end > len(targets) {
			end = len(targets)
		}
		chunks = append(chunks, targets[i:end])
	}

	var intermediate []string
	for _, chunk := range chunks {
		narrative, err := s.SummarizeNetwork(ctx, chunk)
		if err != nil {
			continue
		}
		intermediate = append(intermediate, narrative)
	}

	if len(intermediate) == 0 {
		return "Failed to generate summary.", nil
	}

	var metaTargets []model.Target
	for i, narrative := range intermediate {
		metaTargets = append(metaTargets, model.Target{
			Name:    fmt.Sprintf("Part %d", i+1),
			Summary: narrative,
		})
	}

	return s.SummarizeNetwork(ctx, metaTargets)
}

// GenerateNetworkName produces a short working label from a finished
// network summary.
func (s *Summarizer) GenerateNetworkName(ctx context.Context, networkSummary string) (string, error) {
	promptTemplate := s.Prompts.NetworkName
	if promptTemplate == "" {
		promptTemplate = defaultNetworkNamePrompt
	}

	response, err := s.LLM.Generate(ctx, fmt.Sprintf(promptTemplate, networkSummary))
	if err != nil {
		return "", fmt.Errorf("failed to generate network name: %w", err)
	}

	result, err := common.ParseJSON[model.NetworkName](response)
	if err == nil {
		return result.Name, nil
	}

	return response, nil
}

func targetFactSheet(t model.Target) string {
	name := t.Name
	if name == "" {
		name = "unknown subject"
	}
	sheet := fmt.Sprintf("Subject %s (%s):\n", t.UUID, name)
	if t.Summary != "" {
		sheet += fmt.Sprintf("- prior summary: %s\n", t.Summary)
	}
	if len(t.Collateral.Emails) > 0 {
		sheet += fmt.Sprintf("- emails: %s\n", strings.Join(t.Collateral.Emails, ", "))
	}
	if len(t.Collateral.Phones) > 0 {
		sheet += fmt.Sprintf("- phones: %s\n", strings.Join(t.Collateral.Phones, ", "))
	}
	if len(t.Collateral.Usernames) > 0 {
		sheet += fmt.Sprintf("- usernames: %s\n", strings.Join(t.Collateral.Usernames, ", "))
	}
	if len(t.Collateral.IPs) > 0 {
		sheet += fmt.Sprintf("- ips: %s\n", strings.Join(t.Collateral.IPs, ", "))
	}
	if len(t.Collateral.Addresses) > 0 {
		sheet += fmt.Sprintf("- addresses: %s\n", strings.Join(t.Collateral.Addresses, ", "))
	}
	if len(t.Sources) > 0 {
		sheet += fmt.Sprintf("- sources: %s\n", strings.Join(t.Sources, ", "))
	}
	return sheet
}
