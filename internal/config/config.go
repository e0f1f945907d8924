// Package config loads layered configuration: defaults, then the JSON config
// file at $XDG_CONFIG_HOME/wayfind/config.json, then WAYFIND_* environment
// variables. API keys come from the environment only and are never persisted.
package config

type Config struct {
	Server    ServerConfig
	Providers ProviderConfig
	Query     QueryConfig
	Agent     AgentConfig
	Storage   StorageConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
}

// ProviderConfig holds external provider settings. Either key may be empty;
// the service degrades instead of refusing to start.
type ProviderConfig struct {
	GroqAPIKey string
	SerpAPIKey string
	Model      string
}

type QueryConfig struct {
	MaxRetries   int
	CacheTTL     string // duration, e.g. "24h"
	SuccessDelay string // duration, pause after a successful provider call
	RetryDelay   string // duration, pause between failed attempts
}

type AgentConfig struct {
	MaxIterations int
}

type StorageConfig struct {
	// DataDir is where the session database lives. Empty means in-memory:
	// profile, reports, and chat history vanish when the process exits.
	DataDir string
}

type LogConfig struct {
	Level string // debug, info, warn, error
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		Providers: ProviderConfig{
			Model: "gemma2-9b-it",
		},
		Query: QueryConfig{
			MaxRetries:   3,
			CacheTTL:     "24h",
			SuccessDelay: "1s",
			RetryDelay:   "2s",
		},
		Agent: AgentConfig{
			MaxIterations: 6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the file backend and environment. Missing
// API keys are not an error: callers check which providers are configured
// and degrade accordingly.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}
