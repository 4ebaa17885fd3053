package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/boardofone/advisory-backend/internal/platform/config"
)

const (
	defaultOpenAIModel = openai.GPT4oMini

	openaiRateLimiterBurst = 5
)

// ErrOpenAIEmptyCompletion indicates an OpenAI response with no choices.
var ErrOpenAIEmptyCompletion = errors.New("openai returned no completion choices")

// openaiProvider completes prompts via OpenAI chat completions. It runs as
// the fallback when Anthropic is unavailable.
type openaiProvider struct {
	cfg         *config.Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewOpenAIProvider creates the OpenAI fallback provider.
func NewOpenAIProvider(cfg *config.Config, logger *zerolog.Logger) Provider {
	rateLimit := cfg.LLMRateLimitRPS
	if rateLimit == 0 {
		rateLimit = 1
	}

	return &openaiProvider{
		cfg:         cfg,
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), openaiRateLimiterBurst),
	}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Priority() int { return priorityFallback }

func (p *openaiProvider) resolveModel() string {
	if p.cfg.OpenAIModel != "" {
		return p.cfg.OpenAIModel
	}

	return defaultOpenAIModel
}

func (p *openaiProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.resolveModel(),
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrOpenAIEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
