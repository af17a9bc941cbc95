package perception

import (
	"context"
	"fmt"
	"time"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/config"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// NewClient creates the LLM client selected by configuration.
// Supported providers: "gemini" (REST, default) and "genai" (official SDK).
func NewClient(ctx context.Context, cfg config.LLMConfig) (types.LLMClient, error) {
	timeout := 30 * time.Second
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid llm timeout %q: %w", cfg.Timeout, err)
		}
		timeout = parsed
	}

	gc := GeminiConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: timeout,
	}

	switch cfg.Provider {
	case "", "gemini":
		logging.Boot("perception: using Gemini REST client (model=%s)", gc.Model)
		return NewGeminiClient(gc), nil
	case "genai":
		logging.Boot("perception: using GenAI SDK client (model=%s)", gc.Model)
		return NewGenAIClient(ctx, gc)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
