package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"records-atlas/internal/resilience/circuitbreaker"
	"records-atlas/internal/resilience/retry"
	"records-atlas/internal/utils/text"
)

// OpenAI generates jurisdiction overviews using the OpenAI API.
type OpenAI struct {
	client    *openai.Client
	breaker   *circuitbreaker.CircuitBreaker
	retry     retry.Config
	charLimit int
	model     string
	maxTokens int
}

// NewOpenAI creates an OpenAI overview writer with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	charLimit := charLimitFromEnv()

	slog.Info("Initialized OpenAI overview writer",
		slog.Int("character_limit", charLimit))

	return &OpenAI{
		client:    openai.NewClient(apiKey),
		breaker:   circuitbreaker.New(circuitbreaker.SummarizerConfig("openai-api")),
		retry:     retry.SummarizerConfig(),
		charLimit: charLimit,
		model:     openai.GPT4oMini,
		maxTokens: 1024,
	}
}

// Summarize condenses a jurisdiction page's prose into a short overview.
func (o *OpenAI) Summarize(ctx context.Context, prose string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	var result string
	retryErr := retry.WithBackoff(ctx, o.retry, func() error {
		cbResult, err := o.breaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, prose)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("state", o.breaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai summarize failed after retries: %w", retryErr)
	}
	return result, nil
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, prose string) (string, error) {
	prompt := buildPrompt(o.charLimit, truncateInput(prose))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Overview generation failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}

	overview := resp.Choices[0].Message.Content
	slog.InfoContext(ctx, "Overview generation completed",
		slog.Int("overview_length", text.CountRunes(overview)),
		slog.Duration("duration", duration))
	return overview, nil
}
