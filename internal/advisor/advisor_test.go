package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kalambet/wayfind/internal/groq"
	"github.com/kalambet/wayfind/internal/report"
)

type fakeChatter struct {
	response string
	err      error

	lastMessages []groq.Message
}

func (f *fakeChatter) Chat(_ context.Context, messages []groq.Message) (string, error) {
	f.lastMessages = messages
	return f.response, f.err
}

func sampleReport() *report.Report {
	return &report.Report{
		CareerName:       "Data Scientist",
		Research:         "RESEARCH-SECTION",
		MarketAnalysis:   "MARKET-SECTION",
		LearningRoadmap:  "ROADMAP-SECTION",
		IndustryInsights: "INSIGHTS-SECTION",
	}
}

func lastPrompt(t *testing.T, f *fakeChatter) string {
	t.Helper()
	if len(f.lastMessages) != 1 {
		t.Fatalf("expected a single message, got %d", len(f.lastMessages))
	}
	if f.lastMessages[0].Role != "user" {
		t.Fatalf("role = %q", f.lastMessages[0].Role)
	}
	return f.lastMessages[0].Content
}

func TestRespond_NoModel(t *testing.T) {
	adv := New(nil)

	got := adv.Respond(context.Background(), "What should I learn?", sampleReport())
	if got != "Career assistant is not available. Please provide a Groq API key." {
		t.Errorf("got %q", got)
	}
}

func TestRespond_SalaryQuestionSelectsMarketContext(t *testing.T) {
	f := &fakeChatter{response: "answer"}
	adv := New(f)

	adv.Respond(context.Background(), "What is the typical salary?", sampleReport())

	prompt := lastPrompt(t, f)
	if !strings.Contains(prompt, "MARKET-SECTION") {
		t.Error("market section missing from context")
	}
	if strings.Contains(prompt, "ROADMAP-SECTION") || strings.Contains(prompt, "INSIGHTS-SECTION") {
		t.Errorf("unrelated sections leaked into context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "The user has selected the Data Scientist career path.") {
		t.Error("career framing missing")
	}
	if !strings.Contains(prompt, "User question: What is the typical salary?") {
		t.Error("question missing from prompt")
	}
}

func TestRespond_SkillQuestionSelectsResearchAndRoadmap(t *testing.T) {
	f := &fakeChatter{response: "answer"}
	adv := New(f)

	adv.Respond(context.Background(), "Which SKILLS do I need?", sampleReport())

	prompt := lastPrompt(t, f)
	if !strings.Contains(prompt, "RESEARCH-SECTION") || !strings.Contains(prompt, "ROADMAP-SECTION") {
		t.Error("skill question should include research and roadmap sections")
	}
	if strings.Contains(prompt, "MARKET-SECTION") {
		t.Error("market section should not be included")
	}
}

func TestRespond_MultipleGroupsAdditive(t *testing.T) {
	f := &fakeChatter{response: "answer"}
	adv := New(f)

	adv.Respond(context.Background(), "How does salary relate to work-life balance?", sampleReport())

	prompt := lastPrompt(t, f)
	if !strings.Contains(prompt, "MARKET-SECTION") || !strings.Contains(prompt, "INSIGHTS-SECTION") {
		t.Error("both matched groups should contribute context")
	}
	// Fixed order: market context precedes insights.
	if strings.Index(prompt, "MARKET-SECTION") > strings.Index(prompt, "INSIGHTS-SECTION") {
		t.Error("context sections out of order")
	}
}

func TestRespond_NoReport(t *testing.T) {
	f := &fakeChatter{response: "answer"}
	adv := New(f)

	got := adv.Respond(context.Background(), "How do I pick a career?", nil)
	if got != "answer" {
		t.Errorf("got %q", got)
	}

	prompt := lastPrompt(t, f)
	if strings.Contains(prompt, "has selected") {
		t.Error("career framing should be absent without a report")
	}
}

func TestRespond_ChatErrorReportedAsText(t *testing.T) {
	f := &fakeChatter{err: errors.New("connection refused")}
	adv := New(f)

	got := adv.Respond(context.Background(), "Any advice?", sampleReport())
	if got != "I encountered an error while processing your question: connection refused" {
		t.Errorf("got %q", got)
	}
}
