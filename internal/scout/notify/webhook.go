// Package notify dispatches finished investment memos to external
// consumers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
)

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	// URL is the endpoint receiving finished memos. Empty disables dispatch.
	URL string
	// Timeout bounds one dispatch request.
	Timeout time.Duration
}

// Webhook posts finished memos as JSON to a configured endpoint.
type Webhook struct {
	config     *WebhookConfig
	httpClient *http.Client
}

// NewWebhook creates a webhook notifier.
func NewWebhook(config *WebhookConfig) *Webhook {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Webhook{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Dispatch sends the memo. Callers treat failures as best effort.
func (w *Webhook) Dispatch(ctx context.Context, memo *model.Deliverable) error {
	if w.config.URL == "" {
		return nil
	}

	payload, err := json.Marshal(memo)
	if err != nil {
		return fmt.Errorf("failed to marshal memo: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	logger.Infow("Dispatched memo", "run_id", memo.ID, "url", w.config.URL)
	return nil
}
