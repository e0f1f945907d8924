package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/wayfind/internal/groq"
)

const defaultMaxIterations = 6

const agentSystemPrompt = `You are a research assistant with access to a web search tool.

To use the tool, respond with exactly:
Action: search
Action Input: <your search query>

You will then receive a line starting with "Observation:" containing the
search results. Repeat the Action/Observation cycle as needed.

When you have enough information, respond with:
Final Answer: <your complete answer>

Always finish with a Final Answer.`

// Agent is a search-augmented answerer: it runs a bounded tool-use loop,
// letting the model issue search actions and feeding the results back as
// observations until the model produces a final answer.
type Agent struct {
	llm           Chatter
	search        Searcher
	maxIterations int
	logger        *slog.Logger
}

// NewAgent creates an Agent. Both capabilities are required; either being nil
// returns ErrNotConfigured. maxIterations <= 0 selects the default (6).
func NewAgent(llm Chatter, search Searcher, maxIterations int) (*Agent, error) {
	if llm == nil || search == nil {
		return nil, ErrNotConfigured
	}
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &Agent{
		llm:           llm,
		search:        search,
		maxIterations: maxIterations,
		logger:        slog.Default(),
	}, nil
}

// Answer runs the tool-use loop. It returns an error when the model never
// reaches a final answer within the iteration budget or when a provider call
// fails; the caller's retry policy handles both.
func (a *Agent) Answer(ctx context.Context, prompt string) (string, error) {
	msgs := []groq.Message{
		{Role: "system", Content: agentSystemPrompt},
		{Role: "user", Content: prompt},
	}

	for i := 0; i < a.maxIterations; i++ {
		out, err := a.llm.Chat(ctx, msgs)
		if err != nil {
			return "", fmt.Errorf("agent chat: %w", err)
		}

		if ans, ok := parseFinalAnswer(out); ok {
			return ans, nil
		}

		input, ok := parseSearchAction(out)
		if !ok {
			// No tool call and no final answer marker: the model answered
			// directly. Treat the whole response as the answer.
			return out, nil
		}

		obs, err := a.search.Search(ctx, input)
		if err != nil {
			return "", fmt.Errorf("agent search: %w", err)
		}
		a.logger.Debug("agent search step", "iteration", i+1, "query", input)

		msgs = append(msgs,
			groq.Message{Role: "assistant", Content: out},
			groq.Message{Role: "user", Content: "Observation: " + obs},
		)
	}

	return "", fmt.Errorf("agent: no final answer after %d iterations", a.maxIterations)
}

// parseFinalAnswer extracts the text following a "Final Answer:" marker.
func parseFinalAnswer(out string) (string, bool) {
	idx := strings.Index(out, "Final Answer:")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(out[idx+len("Final Answer:"):]), true
}

// parseSearchAction extracts the query from an "Action: search" /
// "Action Input: …" pair. Returns ok=false when no search action is present.
func parseSearchAction(out string) (string, bool) {
	var sawSearch bool
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Action:"); ok {
			sawSearch = strings.EqualFold(strings.TrimSpace(rest), "search")
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Action Input:"); ok && sawSearch {
			input := strings.TrimSpace(rest)
			if input != "" {
				return input, true
			}
		}
	}
	return "", false
}
