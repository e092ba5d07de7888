package ai

import (
	"context"
	"fmt"

	"studysync/backend/internal/config"
)

// NewProvider builds the provider named in cfg. A missing API key yields the
// no-op provider so that the text helpers fall back to their fixed replies.
func NewProvider(ctx context.Context, cfg config.Config) (Provider, error) {
	switch cfg.AIProvider {
	case config.AIProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return NewNopProvider(), nil
		}
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.AIProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return NewNopProvider(), nil
		}
		return NewDeepSeekProvider(cfg.DeepSeekAPIKey, cfg.DeepSeekModel)
	case "", "none":
		return NewNopProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}
