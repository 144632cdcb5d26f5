package llm

import (
	"context"
)

// LLMClient is the generation surface the summarizer depends on.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
