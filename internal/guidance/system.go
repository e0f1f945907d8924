// Package guidance wires the career-guidance components together: providers,
// query executor, report assembler, advisor, profile, and session storage.
package guidance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/wayfind/internal/advisor"
	"github.com/kalambet/wayfind/internal/answer"
	"github.com/kalambet/wayfind/internal/cache"
	"github.com/kalambet/wayfind/internal/config"
	"github.com/kalambet/wayfind/internal/groq"
	"github.com/kalambet/wayfind/internal/profile"
	"github.com/kalambet/wayfind/internal/query"
	"github.com/kalambet/wayfind/internal/report"
	"github.com/kalambet/wayfind/internal/resume"
	"github.com/kalambet/wayfind/internal/serp"
	"github.com/kalambet/wayfind/internal/storage"
)

// System is one assembled career-guidance service. Which capabilities are
// live depends on the configured API keys: with both keys the assembler runs
// the search agent, with only a Groq key it answers from the model alone, and
// with neither every surface degrades to fixed text instead of failing.
type System struct {
	Config    config.Config
	Store     *storage.Store
	Profiles  *profile.Manager
	Assembler *report.Assembler
	Advisor   *advisor.Advisor
	Importer  *resume.Importer

	SearchEnabled bool
	ModelEnabled  bool
}

// New builds a System from cfg. The only hard failure is storage; provider
// misconfiguration degrades capabilities instead.
func New(cfg config.Config) (*System, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	sys := &System{
		Config:   cfg,
		Store:    store,
		Profiles: profile.NewManager(store),
	}

	var chatter *groq.Client
	if cfg.Providers.GroqAPIKey != "" {
		chatter = groq.New(cfg.Providers.GroqAPIKey, cfg.Providers.Model)
		sys.ModelEnabled = true
	}

	var direct answer.Answerer
	if chatter != nil {
		pa, err := answer.NewPromptAnswerer(chatter)
		if err != nil {
			return nil, err
		}
		direct = pa
	}

	var primary answer.Answerer
	if chatter != nil && cfg.Providers.SerpAPIKey != "" {
		agent, err := answer.NewAgent(chatter, serp.New(cfg.Providers.SerpAPIKey), cfg.Agent.MaxIterations)
		if err != nil {
			return nil, err
		}
		primary = agent
		sys.SearchEnabled = true
	}

	exec := query.NewExecutor(primary, direct, cache.New(), query.Options{
		MaxRetries:   cfg.Query.MaxRetries,
		TTL:          parseDuration(cfg.Query.CacheTTL, "query.cache_ttl"),
		SuccessDelay: parseDuration(cfg.Query.SuccessDelay, "query.success_delay"),
		RetryDelay:   parseDuration(cfg.Query.RetryDelay, "query.retry_delay"),
	})

	sys.Assembler = report.NewAssembler(exec, sys.SearchEnabled, direct, store)

	var advChatter advisor.Chatter
	if chatter != nil {
		advChatter = chatter
	}
	sys.Advisor = advisor.New(advChatter)

	sys.Importer = resume.NewImporter(resume.PDFExtractor{}, direct, sys.Profiles)

	return sys, nil
}

// Close releases the session store.
func (s *System) Close() error {
	return s.Store.Close()
}

// Analyze assembles (or recalls) the report for careerName using the saved
// profile. It never fails; degraded modes produce reports of explanatory text.
func (s *System) Analyze(ctx context.Context, careerName string) report.Report {
	prof, err := s.Profiles.Get()
	if err != nil {
		slog.Warn("profile unavailable for analysis, using defaults", "error", err)
		prof = nil
	}
	return s.Assembler.Analyze(ctx, careerName, prof)
}

// Chat answers question with the advisor, grounded in the report for career
// (or the most recent report when career is empty), and records the exchange
// in the chat history.
func (s *System) Chat(ctx context.Context, question, career string) (storage.ChatTurn, error) {
	var rep *report.Report
	if career != "" {
		if r, ok, err := s.Store.GetReport(career); err != nil {
			return storage.ChatTurn{}, fmt.Errorf("loading report: %w", err)
		} else if ok {
			rep = &r
		}
	} else {
		reports, err := s.Store.ListReports()
		if err != nil {
			return storage.ChatTurn{}, fmt.Errorf("listing reports: %w", err)
		}
		if len(reports) > 0 {
			rep = &reports[0]
		}
	}

	response := s.Advisor.Respond(ctx, question, rep)

	turn := storage.ChatTurn{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Question:  question,
		Response:  response,
	}
	if rep != nil {
		turn.Career = rep.CareerName
	}
	if err := s.Store.AppendChatTurn(turn); err != nil {
		slog.Warn("recording chat turn failed", "error", err)
	}
	return turn, nil
}

func parseDuration(raw, key string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration in config, using default", "key", key, "value", raw)
		return 0
	}
	return d
}
