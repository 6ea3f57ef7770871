// Package loki pushes membership events consumed from Kafka into Grafana Loki.
package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tenant-accounts/backend/internal/telemetry/domain"
)

const (
	// JobLabel is the job label on every pushed stream.
	JobLabel = "tenant-accounts"

	pushPath = "/loki/api/v1/push"
)

// Label values keep to Loki's conservative character set; anything else becomes '_'.
var unsafeLabelChars = regexp.MustCompile(`[^a-zA-Z0-9_\-:]`)

type pushBody struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Labels map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Entry is one log line with its stream labels. The job label is always added.
type Entry struct {
	Time   time.Time
	Line   string
	Labels map[string]string
}

// Client pushes entries to a Loki instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL (e.g. http://localhost:3100). A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("loki: base URL is empty")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// PushEvent forwards one Kafka message value. A decodable membership event is labelled by
// org_id, event_type and source and stamped with its created_at; anything else goes out as-is
// at the current time with only the job label.
func (c *Client) PushEvent(ctx context.Context, raw []byte) error {
	entry := Entry{Time: time.Now().UTC(), Line: string(raw)}
	var ev domain.Event
	if err := json.Unmarshal(raw, &ev); err == nil {
		entry.Labels = map[string]string{
			"org_id":     ev.OrgID,
			"event_type": string(ev.Type),
			"source":     ev.Source,
		}
		if !ev.CreatedAt.IsZero() {
			entry.Time = ev.CreatedAt
		}
	}
	return c.Push(ctx, entry)
}

// Push sends a single entry. Non-2xx responses are errors.
func (c *Client) Push(ctx context.Context, e Entry) error {
	labels := map[string]string{"job": JobLabel}
	for k, v := range e.Labels {
		if v = unsafeLabelChars.ReplaceAllString(strings.TrimSpace(v), "_"); v != "" {
			labels[k] = v
		}
	}
	payload, err := json.Marshal(pushBody{Streams: []stream{{
		Labels: labels,
		Values: [][2]string{{strconv.FormatInt(e.Time.UnixNano(), 10), e.Line}},
	}}})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pushPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}
