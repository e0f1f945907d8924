package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "WAYFIND_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "providers.groq_api_key", typ: kString, env: "WAYFIND_GROQ_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Providers.GroqAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.GroqAPIKey },
	},
	{
		key: "providers.serpapi_key", typ: kString, env: "WAYFIND_SERPAPI_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Providers.SerpAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.SerpAPIKey },
	},
	{
		key: "providers.model", typ: kString, env: "WAYFIND_PROVIDERS_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Providers.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.Model },
	},
	{
		key: "query.max_retries", typ: kInt, env: "WAYFIND_QUERY_MAX_RETRIES",
		apply:   func(cfg *Config, v any) { cfg.Query.MaxRetries = v.(int) },
		extract: func(cfg Config) any { return cfg.Query.MaxRetries },
	},
	{
		key: "query.cache_ttl", typ: kString, env: "WAYFIND_QUERY_CACHE_TTL",
		apply:   func(cfg *Config, v any) { cfg.Query.CacheTTL = v.(string) },
		extract: func(cfg Config) any { return cfg.Query.CacheTTL },
	},
	{
		key: "query.success_delay", typ: kString, env: "WAYFIND_QUERY_SUCCESS_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Query.SuccessDelay = v.(string) },
		extract: func(cfg Config) any { return cfg.Query.SuccessDelay },
	},
	{
		key: "query.retry_delay", typ: kString, env: "WAYFIND_QUERY_RETRY_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Query.RetryDelay = v.(string) },
		extract: func(cfg Config) any { return cfg.Query.RetryDelay },
	},
	{
		key: "agent.max_iterations", typ: kInt, env: "WAYFIND_AGENT_MAX_ITERATIONS",
		apply:   func(cfg *Config, v any) { cfg.Agent.MaxIterations = v.(int) },
		extract: func(cfg Config) any { return cfg.Agent.MaxIterations },
	},
	{
		key: "storage.data_dir", typ: kString, env: "WAYFIND_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "WAYFIND_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
