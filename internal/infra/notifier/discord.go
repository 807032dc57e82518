package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"records-atlas/internal/domain/entity"

	"github.com/google/uuid"
)

// DiscordConfig contains configuration for Discord webhook alerts.
type DiscordConfig struct {
	// Enabled indicates whether Discord alerts are enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordNotifier posts dead-link alerts to Discord via webhook.
type DiscordNotifier struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewDiscordNotifier creates a DiscordNotifier. The rate limiter is set to
// 0.5 requests per second with a burst of 3, within the Discord webhook
// limit of 30 requests per minute.
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(0.5, 3),
	}
}

// DiscordWebhookPayload represents the JSON payload sent to the Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	// Discord limits
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	truncationSuffix     = "..."

	// Red (#ED4245), the alert color
	discordRedColor = 15548997
)

// buildEmbedPayload renders a dead-link alert as a red embed. The
// description carries the failing status and the guidance note when one
// exists; the footer names the jurisdiction page.
func (d *DiscordNotifier) buildEmbedPayload(resource *entity.Resource, jurisdiction *entity.Jurisdiction) DiscordWebhookPayload {
	title := fmt.Sprintf("Dead link: %s", resource.Title)
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	status := fmt.Sprintf("HTTP %d", resource.LastStatus)
	if resource.LastStatus == 0 {
		status = "connection failed"
	}

	description := fmt.Sprintf("%s is no longer reachable (%s).", resource.URL, status)
	if resource.Note != "" {
		description = fmt.Sprintf("%s\n\n%s", description, resource.Note)
	}
	description = truncateText(description, maxDescriptionLength, truncationSuffix)

	checkedAt := time.Now()
	if resource.LastCheckedAt != nil {
		checkedAt = *resource.LastCheckedAt
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: description,
		URL:         resource.URL,
		Color:       discordRedColor,
		Footer: DiscordEmbedFooter{
			Text: fmt.Sprintf("%s (%s)", jurisdiction.Name, jurisdiction.Code),
		},
		Timestamp: checkedAt.Format(time.RFC3339),
	}

	return DiscordWebhookPayload{
		Embeds: []DiscordEmbed{embed},
	}
}

// sendWebhookRequest posts one alert to the Discord webhook.
//
// Error types:
//   - 429: RateLimitError (retryable, carries retry_after)
//   - 4xx (non-429): ClientError (non-retryable)
//   - 5xx: ServerError (retryable)
//   - network errors: retryable
func (d *DiscordNotifier) sendWebhookRequest(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
	payload := d.buildEmbedPayload(resource, jurisdiction)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Message:    "Discord rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API client error: %s", string(body)),
		}
	}

	if resp.StatusCode >= 500 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API server error: %s", string(body)),
		}
	}

	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// sendWebhookRequestWithRetry retries transient failures with the same
// policy as the Slack notifier: two attempts, retry_after honored on 429,
// linear backoff on server errors, immediate failure on client errors.
func (d *DiscordNotifier) sendWebhookRequestWithRetry(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
	const (
		maxAttempts = 2
		baseDelay   = 5 * time.Second
	)

	requestID, _ := ctx.Value(requestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := d.sendWebhookRequest(ctx, resource, jurisdiction)

		if err == nil {
			slog.Info("Discord dead-link alert sent",
				slog.String("request_id", requestID),
				slog.Int64("resource_id", resource.ID),
				slog.String("url", resource.URL),
				slog.Int("attempt", attempt))
			return nil
		}

		lastErr = err

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("Discord rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.Int64("resource_id", resource.ID),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))

			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("Discord alert failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.Int64("resource_id", resource.ID),
				slog.String("url", resource.URL),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < maxAttempts {
			delay := baseDelay * time.Duration(attempt)
			slog.Warn("Discord API request failed, retrying",
				slog.String("request_id", requestID),
				slog.Int64("resource_id", resource.ID),
				slog.String("url", resource.URL),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	slog.Error("Discord alert failed after all retries",
		slog.String("request_id", requestID),
		slog.Int64("resource_id", resource.ID),
		slog.String("url", resource.URL),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", maxAttempts))

	return fmt.Errorf("discord alert failed after %d attempts: %w", maxAttempts, lastErr)
}

// NotifyDeadLink implements the Notifier interface.
func (d *DiscordNotifier) NotifyDeadLink(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	slog.Info("Starting Discord dead-link alert",
		slog.String("request_id", requestID),
		slog.Int64("resource_id", resource.ID),
		slog.String("jurisdiction", jurisdiction.Code),
		slog.String("url", resource.URL))

	if err := d.rateLimiter.Allow(ctx); err != nil {
		slog.Error("Rate limiter error",
			slog.String("request_id", requestID),
			slog.Int64("resource_id", resource.ID),
			slog.Any("error", err))
		return fmt.Errorf("rate limiter error: %w", err)
	}

	return d.sendWebhookRequestWithRetry(ctx, resource, jurisdiction)
}
