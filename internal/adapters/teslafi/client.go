// Package teslafi implements the HTTP client for the TeslaFi feed API.
//
// The feed returns one flat JSON object per call. Which fields are populated
// depends on the vehicle state: an asleep car omits most live sensor data.
// The optional command parameter selects an alternative feed view, e.g.
// "lastGoodTemp" for the newest record that still carries temperature fields.
package teslafi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neredera/teslafi-exporter/internal/domain"
)

// DefaultFeedURL is the production TeslaFi feed endpoint.
const DefaultFeedURL = "https://www.teslafi.com/feed.php"

// StatusError reports a non-200 response from the feed endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("teslafi: feed returned status %d: %s", e.Code, e.Body)
}

// APIError reports a request the feed accepted at the HTTP level but rejected
// itself, signalled by a top-level "response" envelope in the body.
type APIError struct {
	Result string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("teslafi: feed rejected request: %q", e.Result)
}

// Client issues authenticated GET requests against the feed endpoint.
type Client struct {
	feedURL string
	token   string
	hc      *http.Client
	logger  *zap.Logger
}

// New returns a Client for the given feed URL and API token.
// A nil http.Client gets a default with a 30s timeout; a nil logger is replaced
// by a no-op one.
func New(feedURL, token string, hc *http.Client, logger *zap.Logger) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		feedURL: strings.TrimRight(feedURL, "?"),
		token:   token,
		hc:      hc,
		logger:  logger,
	}
}

// Fetch calls the feed and decodes the response into a Snapshot.
// command selects the feed view; the empty string requests the current record.
// There are no retries: any transport or upstream failure is returned as-is.
func (c *Client) Fetch(ctx context.Context, command string) (domain.Snapshot, error) {
	q := url.Values{}
	q.Set("token", c.token)
	if command != "" {
		q.Set("command", command)
	}
	endpoint := c.feedURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("teslafi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("calling feed", zap.String("command", command))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("teslafi: call feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("teslafi: read feed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("teslafi: decode feed response: %w", err)
	}

	// The feed signals its own errors by wrapping them in a "response" object
	// instead of using an HTTP status.
	if raw, wrapped := snap["response"]; wrapped {
		result := ""
		if env, ok := raw.(map[string]any); ok {
			if r, ok := env["result"].(string); ok {
				result = r
			}
		}
		return nil, &APIError{Result: result}
	}

	c.logger.Debug("feed response", zap.String("command", command), zap.Int("fields", len(snap)))
	return snap, nil
}
