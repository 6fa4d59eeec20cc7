// Package notify posts a completion message after a successful run.
// Notification happens outside the pipeline's abort policy: a failure
// here is logged and swallowed, never fatal.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackNotifier sends notifications to Slack via a webhook.
type SlackNotifier struct {
	WebhookURL string
	post       func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

// NewSlackNotifier creates a new SlackNotifier.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		post:       slack.PostWebhookContext,
	}
}

// Notify sends a message to the configured webhook.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s.WebhookURL == "" {
		return fmt.Errorf("slack webhook URL is not configured")
	}
	if err := s.post(ctx, s.WebhookURL, &slack.WebhookMessage{Text: message}); err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}
