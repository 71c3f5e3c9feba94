package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finospark/finospark/internal/analysis"
	"github.com/finospark/finospark/internal/common"
	"github.com/finospark/finospark/internal/config"
	"github.com/finospark/finospark/internal/llm"
	"github.com/finospark/finospark/internal/ratelimit"
	"github.com/finospark/finospark/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis HTTP server",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8000)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	common.SetupLogger(common.ParseLogLevel(cfg.Logging.Level), cfg.Logging.Format)
	logger := slog.Default()

	limiter := ratelimit.NewLimiter(cfg.RateLimit.Window, cfg.RateLimit.Limit)

	// Sweep fully expired identities so the window map stays bounded even
	// when one-off identities never come back.
	ctx := cmd.Context()
	go func() {
		ticker := time.NewTicker(limiter.Window())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Prune()
			}
		}
	}()

	// Without a credential the server still runs: /health reports the gap
	// and /analyze answers 500 before the pipeline is reached.
	configured := cfg.LLM.APIKey != ""
	var client llm.Client
	if configured {
		var err error
		client, err = llm.NewClient(llm.Config{
			Provider:    cfg.LLM.Provider,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}

		if cfg.LLM.MaxAttempts > 1 {
			logger.Info("upstream retry enabled", "max_attempts", cfg.LLM.MaxAttempts)
			client = llm.NewRetryingClient(client, common.RetryOptions{
				MaxAttempts:  cfg.LLM.MaxAttempts,
				InitialDelay: time.Second,
				MaxDelay:     30 * time.Second,
				Multiplier:   2.0,
			})
		}
	} else {
		logger.Warn("LLM API key not configured; analysis requests will fail")
	}

	prompts, err := analysis.NewPromptBuilder()
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	pipeline := analysis.NewPipeline(client, limiter, prompts, logger)

	srv := server.New(pipeline, logger, server.Options{
		Version:         version,
		RateLimitWindow: limiter.Window(),
		LLMConfigured:   configured,
	})

	logger.Info("starting finospark",
		"addr", cfg.Server.Addr,
		"provider", cfg.LLM.Provider,
		"rate_limit", limiter.Limit(),
		"rate_window", limiter.Window())

	return srv.Run(ctx, cfg.Server.Addr)
}
