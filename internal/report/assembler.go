// Package report assembles career reports from four structured queries
// issued against the cached query executor.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/wayfind/internal/answer"
	"github.com/kalambet/wayfind/internal/profile"
	"github.com/kalambet/wayfind/internal/query"
)

// Assembler turns a career name and an optional profile into a Report.
//
// Reports are memoized in the session store by career name: re-analysis of a
// known career returns the stored report unchanged, even if the profile has
// changed since. The TTL cache underneath still partitions roadmap entries by
// experience level, so a fresh session picks up the right cached queries.
type Assembler struct {
	exec      *query.Executor
	hasSearch bool
	direct    answer.Answerer // plain-model mode; nil when no language model is configured
	store     Store
	logger    *slog.Logger
}

// NewAssembler creates an Assembler. hasSearch selects the search-agent query
// path; direct is the plain language-model answerer used when search is not
// available (may be nil).
func NewAssembler(exec *query.Executor, hasSearch bool, direct answer.Answerer, store Store) *Assembler {
	return &Assembler{
		exec:      exec,
		hasSearch: hasSearch,
		direct:    direct,
		store:     store,
		logger:    slog.Default(),
	}
}

// Analyze produces the report for careerName. It never fails: with no
// configured capability it returns a report of fixed unavailable messages,
// and provider failures surface as reported text inside the sections.
func (a *Assembler) Analyze(ctx context.Context, careerName string, prof *profile.Profile) Report {
	if rep, ok, err := a.store.GetReport(careerName); err != nil {
		a.logger.Warn("report memo read failed, reassembling", "career", careerName, "error", err)
	} else if ok {
		a.logger.Debug("report memo hit", "career", careerName)
		return rep
	}

	var rep Report
	switch {
	case a.hasSearch:
		rep = a.assembleSearch(ctx, careerName, prof)
	case a.direct != nil:
		rep = a.assembleDirect(ctx, careerName, prof)
	default:
		rep = unavailableReport(careerName)
	}

	if err := a.store.SaveReport(rep); err != nil {
		a.logger.Warn("saving report failed", "career", careerName, "error", err)
	}
	return rep
}

// assembleSearch issues the four templated queries through the executor. The
// queries address disjoint cache keys and are order-independent, so they run
// in parallel. The roadmap key is additionally namespaced by experience
// level; the other three are shared across levels.
func (a *Assembler) assembleSearch(ctx context.Context, career string, prof *profile.Profile) Report {
	level := prof.ExperienceLevel()

	var overview, market, roadmap, insights string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview = a.exec.Execute(gctx, overviewQuery(career), career+"_overview")
		return nil
	})
	g.Go(func() error {
		market = a.exec.Execute(gctx, marketQuery(career), career+"_market")
		return nil
	})
	g.Go(func() error {
		roadmap = a.exec.Execute(gctx, roadmapQuery(career, level), career+"_roadmap_"+level)
		return nil
	})
	g.Go(func() error {
		insights = a.exec.Execute(gctx, insightsQuery(career), career+"_insights")
		return nil
	})
	g.Wait()

	return a.wrap(career, overview, market, roadmap, insights)
}

// assembleDirect issues the four analysis prompts straight against the plain
// language model (no search, no query cache; the report memo still applies).
func (a *Assembler) assembleDirect(ctx context.Context, career string, prof *profile.Profile) Report {
	level := prof.ExperienceLevel()

	ask := func(prompt string) string {
		out, err := a.direct.Answer(ctx, prompt)
		if err != nil {
			a.logger.Warn("direct analysis query failed", "career", career, "error", err)
			return fmt.Sprintf("Analysis failed: %s", err)
		}
		return out
	}

	var overview, market, roadmap, insights string
	var g errgroup.Group
	g.Go(func() error { overview = ask(overviewPrompt(career)); return nil })
	g.Go(func() error { market = ask(marketPrompt(career)); return nil })
	g.Go(func() error { roadmap = ask(roadmapPrompt(career, level)); return nil })
	g.Go(func() error { insights = ask(insightsPrompt(career)); return nil })
	g.Wait()

	return a.wrap(career, overview, market, roadmap, insights)
}

func (a *Assembler) wrap(career, overview, market, roadmap, insights string) Report {
	return Report{
		CareerName:       career,
		Research:         formatSection(overview, career+" Career Analysis"),
		MarketAnalysis:   formatSection(market, career+" Market Analysis"),
		LearningRoadmap:  formatSection(roadmap, career+" Learning Roadmap"),
		IndustryInsights: formatSection(insights, career+" Industry Insights"),
		GeneratedAt:      time.Now().UTC(),
	}
}

func unavailableReport(career string) Report {
	return Report{
		CareerName:       career,
		Research:         fmt.Sprintf("Career analysis for %s unavailable. Please provide API keys.", career),
		MarketAnalysis:   "Market analysis unavailable. Please provide API keys.",
		LearningRoadmap:  "Learning roadmap unavailable. Please provide API keys.",
		IndustryInsights: "Industry insights unavailable. Please provide API keys.",
		GeneratedAt:      time.Now().UTC(),
	}
}
