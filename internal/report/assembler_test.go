package report

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/wayfind/internal/cache"
	"github.com/kalambet/wayfind/internal/profile"
	"github.com/kalambet/wayfind/internal/query"
)

// --- Fakes ---

type fakeAnswerer struct {
	mu      sync.Mutex
	answers map[string]string // substring of prompt → answer
	calls   []string
}

func (f *fakeAnswerer) Answer(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, prompt)
	for sub, out := range f.answers {
		if strings.Contains(prompt, sub) {
			return out, nil
		}
	}
	return "generic answer", nil
}

func (f *fakeAnswerer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAnswerer) callsContaining(sub string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, sub) {
			n++
		}
	}
	return n
}

type memStore struct {
	mu      sync.Mutex
	reports map[string]Report
}

func newMemStore() *memStore {
	return &memStore{reports: make(map[string]Report)}
}

func (s *memStore) GetReport(name string) (Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[name]
	return rep, ok, nil
}

func (s *memStore) SaveReport(rep Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.CareerName] = rep
	return nil
}

func noSleep(context.Context, time.Duration) {}

// --- Tests ---

func newSearchAssembler(primary *fakeAnswerer, store Store) *Assembler {
	exec := query.NewExecutorWithSleeper(primary, nil, cache.New(), query.Options{}, noSleep)
	return NewAssembler(exec, true, nil, store)
}

func TestAnalyze_SearchMode(t *testing.T) {
	primary := &fakeAnswerer{answers: map[string]string{
		"overview of":       "What the role involves.",
		"job market for":    "Strong demand.",
		"learning roadmap":  "Start with fundamentals.",
		"industry insights": "Remote-friendly.",
	}}
	asm := newSearchAssembler(primary, newMemStore())

	rep := asm.Analyze(context.Background(), "Data Scientist", nil)

	if rep.CareerName != "Data Scientist" {
		t.Errorf("career name = %q", rep.CareerName)
	}
	if !strings.HasPrefix(rep.Research, "# Data Scientist Career Analysis") {
		t.Errorf("research heading missing: %q", rep.Research)
	}
	if !strings.Contains(rep.MarketAnalysis, "Strong demand.") {
		t.Errorf("market = %q", rep.MarketAnalysis)
	}
	if !strings.Contains(rep.LearningRoadmap, "Start with fundamentals.") {
		t.Errorf("roadmap = %q", rep.LearningRoadmap)
	}
	if !strings.Contains(rep.IndustryInsights, "Remote-friendly.") {
		t.Errorf("insights = %q", rep.IndustryInsights)
	}
	if rep.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
	if got := primary.callCount(); got != 4 {
		t.Errorf("expected 4 queries, got %d", got)
	}
}

func TestAnalyze_MemoizedOnSecondCall(t *testing.T) {
	primary := &fakeAnswerer{}
	store := newMemStore()
	asm := newSearchAssembler(primary, store)

	first := asm.Analyze(context.Background(), "UX Designer", nil)
	second := asm.Analyze(context.Background(), "UX Designer", nil)

	if got := primary.callCount(); got != 4 {
		t.Errorf("expected no queries on re-analysis, got %d total", got)
	}
	if first != second {
		t.Error("re-analysis returned a different report")
	}
}

func TestAnalyze_RoadmapPartitionedByExperience(t *testing.T) {
	primary := &fakeAnswerer{}
	shared := cache.New()

	beginner := &profile.Profile{Experience: "0-2 years"}
	advanced := &profile.Profile{Experience: "10+ years"}

	// Separate memo stores, shared query cache: two sessions analyzing the
	// same career at different levels.
	exec := query.NewExecutorWithSleeper(primary, nil, shared, query.Options{}, noSleep)
	NewAssembler(exec, true, nil, newMemStore()).Analyze(context.Background(), "Nurse", beginner)
	NewAssembler(exec, true, nil, newMemStore()).Analyze(context.Background(), "Nurse", advanced)

	// Roadmap re-queried per level; the other three sections served from cache.
	if got := primary.callCount(); got != 5 {
		t.Errorf("expected 5 queries (4 + 1 roadmap re-query), got %d", got)
	}
	if got := primary.callsContaining("beginner"); got != 1 {
		t.Errorf("beginner roadmap queries = %d", got)
	}
	if got := primary.callsContaining("advanced"); got != 1 {
		t.Errorf("advanced roadmap queries = %d", got)
	}
}

func TestAnalyze_DirectMode(t *testing.T) {
	direct := &fakeAnswerer{answers: map[string]string{
		"comprehensive analysis": "Role overview.",
	}}
	asm := NewAssembler(nil, false, direct, newMemStore())

	rep := asm.Analyze(context.Background(), "Pilot", nil)

	if !strings.Contains(rep.Research, "Role overview.") {
		t.Errorf("research = %q", rep.Research)
	}
	if got := direct.callCount(); got != 4 {
		t.Errorf("expected 4 direct prompts, got %d", got)
	}
}

func TestAnalyze_Unavailable(t *testing.T) {
	asm := NewAssembler(nil, false, nil, newMemStore())

	rep := asm.Analyze(context.Background(), "Chef", nil)

	if rep.Research != "Career analysis for Chef unavailable. Please provide API keys." {
		t.Errorf("research = %q", rep.Research)
	}
	if rep.MarketAnalysis != "Market analysis unavailable. Please provide API keys." {
		t.Errorf("market = %q", rep.MarketAnalysis)
	}
	if rep.LearningRoadmap != "Learning roadmap unavailable. Please provide API keys." {
		t.Errorf("roadmap = %q", rep.LearningRoadmap)
	}
	if rep.IndustryInsights != "Industry insights unavailable. Please provide API keys." {
		t.Errorf("insights = %q", rep.IndustryInsights)
	}
}

func TestAnalyze_StripsAgentNarration(t *testing.T) {
	primary := &fakeAnswerer{answers: map[string]string{
		"overview of": "I'll search for that information.\nAction: search\nObservation: raw data\nReal overview content.",
	}}
	asm := newSearchAssembler(primary, newMemStore())

	rep := asm.Analyze(context.Background(), "Pilot", nil)

	if strings.Contains(rep.Research, "Action:") || strings.Contains(rep.Research, "Observation:") {
		t.Errorf("narration leaked: %q", rep.Research)
	}
	if strings.Contains(rep.Research, "I'll search for") {
		t.Errorf("meta-commentary leaked: %q", rep.Research)
	}
	if !strings.Contains(rep.Research, "Real overview content.") {
		t.Errorf("content lost: %q", rep.Research)
	}
}
