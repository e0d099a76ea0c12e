package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"coldwatch/internal/logger"
	"coldwatch/internal/metrics"
)

// Notifier errors
var (
	ErrEmptyWebhookURL = errors.New("webhook URL is required")
	ErrEmptyMessage    = errors.New("message cannot be empty")
)

// Notifier delivers an alert message to a chat channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// SlackWebhook posts messages to a Slack incoming webhook.
type SlackWebhook struct {
	url    string
	client *http.Client
}

// NewSlackWebhook creates a webhook notifier for the given URL.
func NewSlackWebhook(url string) (*SlackWebhook, error) {
	if url == "" {
		return nil, ErrEmptyWebhookURL
	}

	return &SlackWebhook{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// slackPayload is the incoming-webhook message format.
type slackPayload struct {
	Text string `json:"text"`
}

// Send posts the text to the webhook. Non-2xx responses are errors; delivery
// is never retried.
func (s *SlackWebhook) Send(ctx context.Context, text string) error {
	log := logger.WithComponent("notify")

	if text == "" {
		return ErrEmptyMessage
	}

	body, err := json.Marshal(slackPayload{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.WebhookNotificationsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to reach webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.WebhookNotificationsTotal.WithLabelValues("failed").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, snippet)
	}

	metrics.WebhookNotificationsTotal.WithLabelValues("success").Inc()

	log.Debug().Int("bytes", len(body)).Msg("notification delivered")
	return nil
}
