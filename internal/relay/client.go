// Package relay exposes a thin HTTP facade over the external automation
// backend. It forwards requests, normalizes the responses to JSON, and never
// lets an upstream hang take down a caller.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 5 * time.Second

// Client talks to the automation backend.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a client with the given upstream timeout. A zero timeout
// falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forward issues the upstream request and maps the response to a JSON body
// and status for the caller:
//   - an unreachable or timed-out upstream becomes 502
//   - a non-JSON upstream body is wrapped as {"raw": text}
//   - upstream error statuses are passed through with the body attached
func (c *Client) Forward(ctx context.Context, method, url string, payload any) (any, int) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return map[string]any{"error": "invalid relay payload"}, http.StatusInternalServerError
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return map[string]any{"error": "relay is unavailable"}, http.StatusBadGateway
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return map[string]any{"error": "relay is unavailable"}, http.StatusBadGateway
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return map[string]any{"error": "relay is unavailable"}, http.StatusBadGateway
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		body = map[string]any{"raw": string(raw)}
	}

	if resp.StatusCode >= 400 {
		return map[string]any{
			"error":    "relay returned an error",
			"status":   resp.StatusCode,
			"response": body,
		}, resp.StatusCode
	}
	return body, resp.StatusCode
}
