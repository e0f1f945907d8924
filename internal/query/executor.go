// Package query runs answerer queries through a TTL cache with bounded
// retries and a fallback path. Failures never escape as errors: every
// degraded outcome is reported as user-visible text, so callers render
// whatever comes back.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/wayfind/internal/answer"
	"github.com/kalambet/wayfind/internal/cache"
	"github.com/kalambet/wayfind/internal/groq"
)

const (
	defaultMaxRetries   = 3
	defaultTTL          = 24 * time.Hour
	defaultSuccessDelay = 1 * time.Second
	defaultRetryDelay   = 2 * time.Second
)

// unavailableMessage is returned when no primary answerer is configured.
// No attempt is made in that case.
const unavailableMessage = "Search unavailable. Please provide a SerpAPI key."

// Options tunes the executor. Zero values select the defaults.
type Options struct {
	MaxRetries   int           // primary attempts before falling back (default 3)
	TTL          time.Duration // read-time cache freshness window (default 24h)
	SuccessDelay time.Duration // post-success pause, provider rate-limit courtesy (default 1s)
	RetryDelay   time.Duration // pause between failed attempts (default 2s)
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.TTL <= 0 {
		o.TTL = defaultTTL
	}
	if o.SuccessDelay <= 0 {
		o.SuccessDelay = defaultSuccessDelay
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	return o
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration)

func defaultSleeper(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Executor answers queries through the cache, retrying the primary answerer
// and degrading to the fallback. Writes to a given cache key are serialized
// by the store; queries are idempotent per key, so last-writer-wins.
type Executor struct {
	primary  answer.Answerer // nil when no search capability is configured
	fallback answer.Answerer // nil when no language model is configured
	cache    *cache.Store
	opts     Options
	sleep    Sleeper
	logger   *slog.Logger
}

// NewExecutor creates an Executor. Either answerer may be nil; execution
// degrades accordingly instead of failing.
func NewExecutor(primary, fallback answer.Answerer, store *cache.Store, opts Options) *Executor {
	return NewExecutorWithSleeper(primary, fallback, store, opts, defaultSleeper)
}

// NewExecutorWithSleeper creates an Executor with a custom delay function
// (for testing).
func NewExecutorWithSleeper(primary, fallback answer.Answerer, store *cache.Store, opts Options, sleep Sleeper) *Executor {
	return &Executor{
		primary:  primary,
		fallback: fallback,
		cache:    store,
		opts:     opts.withDefaults(),
		sleep:    sleep,
		logger:   slog.Default(),
	}
}

// Execute answers query, consulting the cache under cacheKey first. The
// result is always content: on total failure it is a deterministic report of
// the exhausted attempts and the last error, never a raised fault.
func (e *Executor) Execute(ctx context.Context, query, cacheKey string) string {
	if v, ok := e.cache.Get(cacheKey, e.opts.TTL); ok {
		e.logger.Debug("cache hit", "key", cacheKey)
		return v
	}

	if e.primary == nil {
		return unavailableMessage
	}

	var lastErr error
	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		result, err := e.primary.Answer(ctx, query)
		if err == nil {
			e.cache.Put(cacheKey, result)
			e.sleep(ctx, e.opts.SuccessDelay)
			return result
		}

		lastErr = err
		e.logger.Warn("query attempt failed",
			"key", cacheKey,
			"attempt", attempt,
			"transient", groq.IsTransient(err),
			"error", err,
		)
		e.sleep(ctx, e.opts.RetryDelay)
	}

	if e.fallback != nil {
		result, err := e.fallback.Answer(ctx, query)
		if err == nil {
			e.cache.Put(cacheKey, result)
			return result
		}
		e.logger.Warn("fallback answerer failed", "key", cacheKey, "error", err)
	}

	return fmt.Sprintf("Search failed after %d attempts. Last error: %s", e.opts.MaxRetries, lastErr)
}
