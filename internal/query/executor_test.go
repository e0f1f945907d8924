package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/wayfind/internal/cache"
)

// fakeAnswerer fails the first failures calls, then succeeds with result.
type fakeAnswerer struct {
	mu       sync.Mutex
	failures int
	result   string
	err      error
	calls    int
}

func (f *fakeAnswerer) Answer(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	if f.err != nil && f.failures == 0 {
		return "", f.err
	}
	return f.result, nil
}

func (f *fakeAnswerer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// alwaysFailing returns err on every call.
func alwaysFailing(err error) *fakeAnswerer {
	return &fakeAnswerer{err: err}
}

func noSleep(ctx context.Context, d time.Duration) {}

// recordingSleeper records requested delays.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
}

func TestExecute_CacheHitSkipsAnswerer(t *testing.T) {
	primary := &fakeAnswerer{result: "fresh"}
	store := cache.New()
	store.Put("k", "cached")

	e := NewExecutorWithSleeper(primary, nil, store, Options{}, noSleep)

	got := e.Execute(context.Background(), "q", "k")
	if got != "cached" {
		t.Errorf("Execute = %q, want cached value", got)
	}
	if primary.callCount() != 0 {
		t.Errorf("primary called %d times on cache hit, want 0", primary.callCount())
	}
}

func TestExecute_SuccessCachesAndDelays(t *testing.T) {
	primary := &fakeAnswerer{result: "answer"}
	store := cache.New()
	sleeper := &recordingSleeper{}

	e := NewExecutorWithSleeper(primary, nil, store, Options{SuccessDelay: time.Second, RetryDelay: 2 * time.Second}, sleeper.sleep)

	got := e.Execute(context.Background(), "q", "k")
	if got != "answer" {
		t.Fatalf("Execute = %q", got)
	}
	if v, ok := store.Get("k", time.Hour); !ok || v != "answer" {
		t.Errorf("result not cached: (%q, %v)", v, ok)
	}
	if len(sleeper.delays) != 1 || sleeper.delays[0] != time.Second {
		t.Errorf("delays = %v, want single 1s post-success pause", sleeper.delays)
	}

	// Second call must come from cache.
	e.Execute(context.Background(), "q", "k")
	if primary.callCount() != 1 {
		t.Errorf("primary called %d times, want 1", primary.callCount())
	}
}

func TestExecute_RetriesThenFallback(t *testing.T) {
	primary := &fakeAnswerer{failures: 2, result: "late success", err: errors.New("boom")}
	store := cache.New()
	sleeper := &recordingSleeper{}

	e := NewExecutorWithSleeper(primary, nil, store, Options{MaxRetries: 3, SuccessDelay: time.Second, RetryDelay: 2 * time.Second}, sleeper.sleep)

	got := e.Execute(context.Background(), "q", "k")
	if got != "late success" {
		t.Fatalf("Execute = %q", got)
	}
	if primary.callCount() != 3 {
		t.Errorf("primary called %d times, want 3", primary.callCount())
	}
	// Two retry delays then one success delay.
	want := []time.Duration{2 * time.Second, 2 * time.Second, time.Second}
	if len(sleeper.delays) != len(want) {
		t.Fatalf("delays = %v, want %v", sleeper.delays, want)
	}
	for i := range want {
		if sleeper.delays[i] != want[i] {
			t.Errorf("delays[%d] = %v, want %v", i, sleeper.delays[i], want[i])
		}
	}
}

func TestExecute_FallbackSuccessIsCached(t *testing.T) {
	primary := alwaysFailing(errors.New("search down"))
	fallback := &fakeAnswerer{result: "plain answer"}
	store := cache.New()

	e := NewExecutorWithSleeper(primary, fallback, store, Options{MaxRetries: 3}, noSleep)

	got := e.Execute(context.Background(), "q", "k")
	if got != "plain answer" {
		t.Fatalf("Execute = %q", got)
	}
	if primary.callCount() != 3 {
		t.Errorf("primary called %d times, want 3", primary.callCount())
	}
	if fallback.callCount() != 1 {
		t.Errorf("fallback called %d times, want 1", fallback.callCount())
	}
	if v, ok := store.Get("k", time.Hour); !ok || v != "plain answer" {
		t.Errorf("fallback result not cached: (%q, %v)", v, ok)
	}
}

func TestExecute_ExhaustionReportsAsText(t *testing.T) {
	primary := alwaysFailing(errors.New("quota exceeded"))
	fallback := alwaysFailing(errors.New("also down"))
	store := cache.New()

	e := NewExecutorWithSleeper(primary, fallback, store, Options{MaxRetries: 3}, noSleep)

	got := e.Execute(context.Background(), "q", "k")
	if primary.callCount() != 3 {
		t.Errorf("primary called %d times, want exactly 3", primary.callCount())
	}
	if fallback.callCount() != 1 {
		t.Errorf("fallback called %d times, want exactly 1", fallback.callCount())
	}
	if !strings.Contains(got, "3") {
		t.Errorf("report %q missing attempt count", got)
	}
	if !strings.Contains(got, "quota exceeded") {
		t.Errorf("report %q missing last error text", got)
	}
	// Total failure must not poison the cache.
	if _, ok := store.Get("k", time.Hour); ok {
		t.Error("failure report was cached")
	}
}

func TestExecute_NoPrimaryConfigured(t *testing.T) {
	fallback := &fakeAnswerer{result: "unused"}
	e := NewExecutorWithSleeper(nil, fallback, cache.New(), Options{}, noSleep)

	got := e.Execute(context.Background(), "q", "k")
	if !strings.Contains(got, "unavailable") {
		t.Errorf("Execute = %q, want configured-unavailable message", got)
	}
	if fallback.callCount() != 0 {
		t.Errorf("fallback called %d times with no primary, want 0", fallback.callCount())
	}
}
