// Package inference provides the bring-your-own-key generation path: when
// the user has stored their own provider API key, the free generator calls
// the provider's OpenAI-compatible image endpoint directly and the backend
// is bypassed entirely.
package inference

import (
	"context"
	"encoding/base64"
	"fmt"

	"artarena/core"
	"artarena/logging"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Provider generates images against an OpenAI-compatible endpoint using
// the user's own API key.
//
// Thread safety: safe for concurrent use; the underlying client pools
// connections.
type Provider struct {
	client *openai.Client
	log    *logging.Logger
}

// ProviderConfig holds configuration for the direct inference provider.
type ProviderConfig struct {
	// APIKey is the user-supplied provider key (required).
	APIKey string

	// BaseURL is the OpenAI-compatible endpoint
	// (default: the hosted inference router).
	BaseURL string
}

// NewProvider creates a direct inference provider.
// Returns an error if the API key is empty.
func NewProvider(cfg ProviderConfig, logger *logging.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("inference: API key is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("inference: logger cannot be nil")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		log:    logger.Named("inference"),
	}, nil
}

// Generate renders the prompt with the given model and returns the result
// as a data URL. The provider API has no negative prompt field, so a
// non-empty negative prompt is folded into the prompt text.
func (p *Provider) Generate(ctx context.Context, prompt, negativePrompt, model string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("inference: prompt cannot be empty")
	}

	fullPrompt := prompt
	if negativePrompt != "" {
		fullPrompt = fmt.Sprintf("%s\nAvoid: %s", prompt, negativePrompt)
	}

	p.log.Debug("direct generation started",
		zap.String("model", model),
		zap.String("prompt_preview", core.TruncateText(prompt, 50)))

	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         fullPrompt,
		Model:          model,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("inference: generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("inference: provider returned no image data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return "", fmt.Errorf("inference: failed to decode image payload: %w", err)
	}

	p.log.Debug("direct generation complete", zap.Int("bytes", len(raw)))
	return DataURL(raw), nil
}
