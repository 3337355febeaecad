package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
)

// Ntfy publishes notifications to an ntfy topic URL.
type Ntfy struct {
	URL        string
	HTTPClient *http.Client
}

var _ ports.Notifier = (*Ntfy)(nil)

type ntfyPayload struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority int      `json:"priority"`
	Tags     []string `json:"tags"`
}

func NewNtfy(url string) *Ntfy {
	return &Ntfy{URL: url, HTTPClient: &http.Client{Timeout: 5 * time.Second}}
}

func (n *Ntfy) Notify(ctx context.Context, notification domain.Notification) error {
	payload := ntfyPayload{
		Title:    title(notification),
		Message:  message(notification),
		Priority: priority(notification.Threshold),
		Tags:     []string{"bar_chart"},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode ntfy payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create ntfy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post ntfy notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("post ntfy notification: status %d", resp.StatusCode)
	}

	return nil
}

func priority(threshold int) int {
	switch {
	case threshold >= 90:
		return 5
	case threshold >= 75:
		return 4
	default:
		return 3
	}
}
