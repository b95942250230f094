package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"renderbot/types"
)

// WebhookNotifier delivers the completion callback: one HTTP POST carrying the
// published artifact's URL. Delivery is best-effort; the caller decides
// whether a failure matters.
type WebhookNotifier struct {
	client *http.Client
}

func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{client: http.DefaultClient}
}

func (n *WebhookNotifier) Notify(ctx context.Context, webhookURL, finalURL string) error {
	body, err := json.Marshal(types.WebhookPayload{FinalURL: finalURL})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
