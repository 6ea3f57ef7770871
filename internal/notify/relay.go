package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRelayTimeout = 15 * time.Second

// RelaySender posts messages as JSON to an HTTP mail relay (transactional mail APIs and internal
// gateways alike). The API key is sent as a bearer token.
type RelaySender struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewRelaySender returns a sender posting to baseURL.
func NewRelaySender(apiKey, baseURL, from string) *RelaySender {
	return &RelaySender{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultRelayTimeout},
	}
}

type relayPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send posts msg to the relay. Any non-2xx response is an error carrying the response body.
func (c *RelaySender) Send(ctx context.Context, msg Message) error {
	if c.BaseURL == "" {
		return fmt.Errorf("relay: base URL not configured")
	}
	raw, err := json.Marshal(relayPayload{From: c.From, To: []string{msg.To}, Subject: msg.Subject, Text: msg.Body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("relay: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
