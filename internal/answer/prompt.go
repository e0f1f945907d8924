package answer

import (
	"context"
	"fmt"

	"github.com/kalambet/wayfind/internal/groq"
)

const promptTemplate = `Please provide information on the following: %s
Structure your response clearly with headings and bullet points.`

// PromptAnswerer answers with a single plain language-model call and no tool
// use. It is the executor's fallback when the search agent is exhausted, and
// the direct answerer for features that never search.
type PromptAnswerer struct {
	llm Chatter
}

// NewPromptAnswerer wraps a Chatter. Returns ErrNotConfigured if llm is nil.
func NewPromptAnswerer(llm Chatter) (*PromptAnswerer, error) {
	if llm == nil {
		return nil, ErrNotConfigured
	}
	return &PromptAnswerer{llm: llm}, nil
}

// Answer sends the templated prompt and returns the model's response.
func (p *PromptAnswerer) Answer(ctx context.Context, prompt string) (string, error) {
	return p.llm.Chat(ctx, []groq.Message{
		{Role: "user", Content: fmt.Sprintf(promptTemplate, prompt)},
	})
}
