// Package summarizer generates short jurisdiction overviews from page
// prose. It includes adapters for Claude (Anthropic) and OpenAI APIs
// with reliability patterns, plus a no-op fallback.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"records-atlas/internal/resilience/circuitbreaker"
	"records-atlas/internal/resilience/retry"
	"records-atlas/internal/utils/text"
)

// Claude generates jurisdiction overviews using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client    anthropic.Client
	breaker   *circuitbreaker.CircuitBreaker
	retry     retry.Config
	charLimit int
	model     string
	maxTokens int
}

// NewClaude creates a Claude overview writer with the given API key.
func NewClaude(apiKey string) *Claude {
	charLimit := charLimitFromEnv()

	slog.Info("Initialized Claude overview writer",
		slog.Int("character_limit", charLimit))

	return &Claude{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		breaker:   circuitbreaker.New(circuitbreaker.SummarizerConfig("claude-api")),
		retry:     retry.SummarizerConfig(),
		charLimit: charLimit,
		model:     string(anthropic.ModelClaudeSonnet4_5_20250929),
		maxTokens: 1024,
	}
}

// Summarize condenses a jurisdiction page's prose into a short overview.
func (c *Claude) Summarize(ctx context.Context, prose string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	var result string
	retryErr := retry.WithBackoff(ctx, c.retry, func() error {
		cbResult, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doSummarize(ctx, prose)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("state", c.breaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("claude summarize failed after retries: %w", retryErr)
	}
	return result, nil
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, prose string) (string, error) {
	requestID := uuid.New().String()
	prompt := buildPrompt(c.charLimit, truncateInput(prose))

	slog.InfoContext(ctx, "Starting overview generation",
		slog.String("request_id", requestID),
		slog.Int("input_length", text.CountRunes(prose)),
		slog.Int("character_limit", c.charLimit))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Overview generation failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	overview := textBlock.Text
	slog.InfoContext(ctx, "Overview generation completed",
		slog.String("request_id", requestID),
		slog.Int("overview_length", text.CountRunes(overview)),
		slog.Duration("duration", duration))
	return overview, nil
}
