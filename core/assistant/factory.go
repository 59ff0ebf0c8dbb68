package assistant

import (
	"context"
	"strings"

	"itsm-desk/config"
	"itsm-desk/core/utils"
)

// NewFromConfig picks the provider named in cfg. Without an API key the
// service runs unconfigured and serves fallbacks.
func NewFromConfig(ctx context.Context, cfg config.AssistantConfig, logger *utils.Logger) *Service {
	var completer Completer
	if cfg.Configured() {
		switch cfg.EffectiveProvider() {
		case config.ProviderGemini:
			baseURL := cfg.BaseURL
			if strings.Contains(baseURL, "api.openai.com") {
				baseURL = ""
			}
			client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, baseURL)
			if err != nil {
				logger.Errorf("assistant provider gemini unavailable: %v", err)
			} else {
				completer = client
			}
		default:
			completer = NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.EffectiveTimeout())
		}
	} else {
		logger.Printf("assistant api key not set; replies will use fallback text")
	}
	return NewService(completer, cfg.EffectiveTimeout(), cfg.EffectiveRetries(), logger)
}
