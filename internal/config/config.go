// Package config loads service configuration from viper-backed sources:
// flags, environment variables (FINOSPARK_*), and an optional YAML file.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Server holds HTTP boundary settings.
type Server struct {
	Addr string
}

// LLM holds inference gateway settings.
type LLM struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxAttempts int
}

// RateLimit holds sliding-window admission settings.
type RateLimit struct {
	Window time.Duration
	Limit  int
}

// Logging holds log output settings.
type Logging struct {
	Level  string
	Format string
}

// Config is the full service configuration.
type Config struct {
	Server    Server
	LLM       LLM
	RateLimit RateLimit
	Logging   Logging
}

// Load reads the configuration from viper, applying defaults for anything
// not set. Viper itself must already have its sources wired (config file,
// env prefix, flag bindings) by the command layer.
func Load() Config {
	cfg := Config{
		Server: Server{
			Addr: viper.GetString("server.addr"),
		},
		LLM: LLM{
			Provider:    viper.GetString("llm.provider"),
			APIKey:      viper.GetString("llm.api_key"),
			Model:       viper.GetString("llm.model"),
			BaseURL:     viper.GetString("llm.base_url"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
			Timeout:     viper.GetDuration("llm.timeout"),
			MaxAttempts: viper.GetInt("llm.max_attempts"),
		},
		RateLimit: RateLimit{
			Window: viper.GetDuration("ratelimit.window"),
			Limit:  viper.GetInt("ratelimit.limit"),
		},
		Logging: Logging{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	// Zero is a legitimate temperature, so "unset" is a presence check.
	if !viper.IsSet("llm.temperature") {
		cfg.LLM.Temperature = 0.2
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.MaxAttempts == 0 {
		cfg.LLM.MaxAttempts = 1
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 60 * time.Second
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	return cfg
}
