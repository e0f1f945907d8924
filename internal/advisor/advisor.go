// Package advisor answers free-form career questions against an assembled
// report. Context is selected by keyword, not retrieval: questions mentioning
// skills pull in the research and roadmap sections, market questions pull in
// the market analysis, and workplace questions pull in the insights.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/wayfind/internal/groq"
	"github.com/kalambet/wayfind/internal/report"
)

const noModelMessage = "Career assistant is not available. Please provide a Groq API key."

const promptTemplate = `You are a career guidance assistant helping a user with their career questions.

Context about the user's selected career:
%s

User question: %s

Provide a helpful, informative response that directly addresses the user's question.
Be conversational but concise. Include specific advice or information when possible.
Format your response in markdown with bullet points and headings where appropriate.`

// Keyword groups gate which report sections join the prompt context. Matching
// is case-insensitive substring, so "skills" and "jobs" match too. Groups are
// additive and appended in a fixed order.
var (
	skillKeywords   = []string{"skill", "learn", "study", "education", "degree"}
	marketKeywords  = []string{"market", "job", "salary", "pay", "demand", "trend"}
	insightKeywords = []string{"work", "day", "culture", "balance", "advance"}
)

// Chatter is the language-model surface the advisor needs.
// Implemented by groq.Client.
type Chatter interface {
	Chat(ctx context.Context, messages []groq.Message) (string, error)
}

// Advisor answers career questions in one model round trip per question.
// It holds no conversation state; each question stands alone with its
// report-derived context.
type Advisor struct {
	chatter Chatter // nil when no language model is configured
	logger  *slog.Logger
}

// New creates an Advisor. chatter may be nil; Respond then returns a fixed
// not-available message.
func New(chatter Chatter) *Advisor {
	return &Advisor{chatter: chatter, logger: slog.Default()}
}

// Respond answers question, optionally grounded in rep (may be nil when no
// career has been analyzed yet). It never fails: model errors come back as
// reported text.
func (a *Advisor) Respond(ctx context.Context, question string, rep *report.Report) string {
	if a.chatter == nil {
		return noModelMessage
	}

	prompt := fmt.Sprintf(promptTemplate, buildContext(question, rep), question)
	response, err := a.chatter.Chat(ctx, []groq.Message{{Role: "user", Content: prompt}})
	if err != nil {
		a.logger.Warn("advisor chat failed", "transient", groq.IsTransient(err), "error", err)
		return fmt.Sprintf("I encountered an error while processing your question: %s", err)
	}
	return response
}

func buildContext(question string, rep *report.Report) string {
	if rep == nil {
		return ""
	}

	career := rep.CareerName
	if career == "" {
		career = "the selected career"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The user has selected the %s career path. ", career)

	lower := strings.ToLower(question)
	if matchesAny(lower, skillKeywords) {
		fmt.Fprintf(&sb, "Here's information about the career: %s ", rep.Research)
		fmt.Fprintf(&sb, "Here's learning roadmap information: %s ", rep.LearningRoadmap)
	}
	if matchesAny(lower, marketKeywords) {
		fmt.Fprintf(&sb, "Here's market analysis information: %s ", rep.MarketAnalysis)
	}
	if matchesAny(lower, insightKeywords) {
		fmt.Fprintf(&sb, "Here's industry insights information: %s ", rep.IndustryInsights)
	}
	return sb.String()
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
