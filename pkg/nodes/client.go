package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single node request when no client is supplied
const DefaultTimeout = 30 * time.Second

// Client fetches the status document published by a network node
type Client struct {
	httpClient *http.Client
}

// NewClient creates a node client using the given HTTP client.
// A nil client falls back to one with DefaultTimeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
	}
}

// Status is the envelope every node wraps its payload in
type Status struct {
	Payload Payload `json:"Payload"`
}

// GetPayload retrieves and decodes the payload served at url.
// There are no retries: any transport, status or decoding failure is returned.
func (c *Client) GetPayload(ctx context.Context, url string) (Payload, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Payload{}, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Payload{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Payload{}, fmt.Errorf("decoding response: %w", err)
	}

	return status.Payload, nil
}
