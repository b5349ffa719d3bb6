package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/lunarops/armstrong"
	"github.com/lunarops/armstrong/llm/claude"
	"github.com/lunarops/armstrong/llm/gemini"
	"github.com/lunarops/armstrong/llm/offline"
	"github.com/lunarops/armstrong/llm/openai"
)

func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "LLM provider (gemini, claude, openai, offline)",
			Value:   "gemini",
			Sources: cli.EnvVars("ARMSTRONG_PROVIDER"),
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "model name override for the selected provider",
			Sources: cli.EnvVars("ARMSTRONG_MODEL"),
		},
	}
}

// newLLMClient builds the LLM client for the selected provider. A missing
// API key is not an error: the mission degrades to the deterministic
// offline client.
func newLLMClient(ctx context.Context, cmd *cli.Command, logger *slog.Logger) (armstrong.LLMClient, error) {
	provider := cmd.String("provider")
	model := cmd.String("model")

	switch provider {
	case "offline":
		return offline.New(), nil

	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			logger.Warn("no GEMINI_API_KEY / GOOGLE_API_KEY set, switching to offline mode")
			return offline.New(), nil
		}
		var opts []gemini.Option
		if model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		return gemini.New(ctx, apiKey, opts...)

	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Warn("no ANTHROPIC_API_KEY set, switching to offline mode")
			return offline.New(), nil
		}
		var opts []claude.Option
		if model != "" {
			opts = append(opts, claude.WithModel(model))
		}
		return claude.New(ctx, apiKey, opts...)

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Warn("no OPENAI_API_KEY set, switching to offline mode")
			return offline.New(), nil
		}
		var opts []openai.Option
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		return openai.New(ctx, apiKey, opts...)

	default:
		return nil, goerr.New("unknown provider", goerr.V("provider", provider))
	}
}
