// Package upstream is the read-only client for the sessions API. The one
// contract that matters: a 200 yields the JSON body, any other status
// yields an explicit absence, and only transport failures are errors of
// the connectivity kind.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxResponseBytes = 8 << 20

// ConnectivityError means the upstream host could not be reached at the
// transport level (DNS, connect, timeout). Callers abort on it instead of
// degrading.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("could not connect to the API server: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Client issues authenticated GETs against the sessions API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client for the API at baseURL. No retries; one timeout
// for every call.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Get fetches path with the given query and optional bearer token.
// Returns (body, true, nil) on a 200 with valid JSON, (nil, false, nil)
// on any other status, a *ConnectivityError on transport failure, and a
// plain error when a 200 body is not valid JSON.
func (c *Client) Get(ctx context.Context, path string, query url.Values, token string) (json.RawMessage, bool, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request for %s: %w", path, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Soft failure: downstream treats missing optional data as
		// "not shown", never as an error.
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, false, fmt.Errorf("read response for %s: %w", path, err)
	}
	if !json.Valid(body) {
		return nil, false, fmt.Errorf("decode response for %s: invalid JSON body", path)
	}
	return json.RawMessage(body), true, nil
}
