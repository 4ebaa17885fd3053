package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/boardofone/advisory-backend/internal/platform/config"
)

const (
	defaultAnthropicModel = "claude-haiku-4.5"

	anthropicRateLimiterBurst = 5
	anthropicContentTypeText  = "text"

	// Anthropic is the primary provider.
	priorityPrimary  = 0
	priorityFallback = 1
)

// anthropicProvider completes prompts via the Anthropic Messages API.
type anthropicProvider struct {
	cfg         *config.Config
	client      anthropic.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewAnthropicProvider creates the Anthropic provider.
func NewAnthropicProvider(cfg *config.Config, logger *zerolog.Logger) Provider {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	rateLimit := cfg.LLMRateLimitRPS
	if rateLimit == 0 {
		rateLimit = 1
	}

	return &anthropicProvider{
		cfg:         cfg,
		client:      client,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), anthropicRateLimiterBurst),
	}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Priority() int { return priorityPrimary }

func (p *anthropicProvider) resolveModel() anthropic.Model {
	if p.cfg.AnthropicModel != "" {
		return anthropic.Model(p.cfg.AnthropicModel)
	}

	return anthropic.Model(defaultAnthropicModel)
}

func (p *anthropicProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.resolveModel(),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	var result strings.Builder

	for _, block := range resp.Content {
		if block.Type == anthropicContentTypeText {
			result.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(result.String()), nil
}
