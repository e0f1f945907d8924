package answer

import (
	"context"
	"errors"

	"github.com/kalambet/wayfind/internal/groq"
)

// ErrNotConfigured is returned by constructors and helpers when a required
// provider credential is absent. Core operations never surface it to callers;
// they degrade into fixed user-visible text instead.
var ErrNotConfigured = errors.New("answerer not configured")

// Answerer is the external capability the core depends on: free-text
// instruction in, free text out. Implementations may fail with transient
// provider errors; callers own retry policy.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// Chatter is the language-model capability answerers build on.
// Implemented by groq.Client.
type Chatter interface {
	Chat(ctx context.Context, messages []groq.Message) (string, error)
}

// Searcher is the web-search capability the agent answerer uses.
// Implemented by serp.Client.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}
