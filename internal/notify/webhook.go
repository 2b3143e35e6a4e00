package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/types"
)

// Webhook posts a segment's summary as JSON to a configured URL.
type Webhook struct {
	URL    string
	Client *http.Client
}

// NewWebhook returns a Webhook sink with a bounded-timeout client.
func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

// Notify posts segment to the webhook URL.
func (w *Webhook) Notify(ctx context.Context, segment types.Segment) error {
	body, err := json.Marshal(segment)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", faults.ErrSink, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", faults.ErrSink, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", faults.ErrSink, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", faults.ErrSink, resp.StatusCode)
	}

	return nil
}
