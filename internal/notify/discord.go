package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Compile-time interface check.
var _ Notifier = (*Discord)(nil)

// Discord posts messages to a Discord webhook URL.
type Discord struct {
	url    string
	client *http.Client
}

// NewDiscord creates a Discord notifier for the given webhook URL.
func NewDiscord(url string) (*Discord, error) {
	if url == "" {
		return nil, fmt.Errorf("discord webhook URL is empty")
	}
	return &Discord{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Name returns "discord".
func (d *Discord) Name() string { return "discord" }

// Notify posts the message as webhook content.
func (d *Discord) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
