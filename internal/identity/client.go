// Package identity talks to the external identity provider: short-lived
// sign-in tokens and organization membership lookups.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Token TTL requested on every issuance. Callers re-issue rather than
// cache, so tokens stay short-lived.
const tokenTTLSeconds = 20

const maxResponseBytes = 1 << 20

// AuthError is any failure talking to the identity provider. Message
// carries the upstream error text when one could be extracted.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("identity provider request failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Client issues authenticated requests to the identity provider.
type Client struct {
	baseURL   string
	secretKey string
	orgID     string
	client    *http.Client
}

// New creates a Client for the provider at baseURL, authenticating with
// secretKey and checking memberships against orgID.
func New(baseURL, secretKey, orgID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		orgID:     orgID,
		client:    &http.Client{Timeout: timeout},
	}
}

type tokenRequest struct {
	UserID    string `json:"user_id"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken requests a fresh sign-in token for userID. No retry and no
// caching; freshness policy belongs to the caller.
func (c *Client) IssueToken(ctx context.Context, userID string) (string, error) {
	body, err := json.Marshal(tokenRequest{UserID: userID, ExpiresIn: tokenTTLSeconds})
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("marshal token request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/sign_in_tokens", bytes.NewReader(body))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("create token request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("request sign-in token: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("read token response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &AuthError{Message: upstreamMessage(data)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	return tok.Token, nil
}

type membershipResponse struct {
	TotalCount int `json:"total_count"`
	Data       []struct {
		Organization struct {
			ID string `json:"id"`
		} `json:"organization"`
	} `json:"data"`
}

// IsOrganizationMember reports whether userID belongs to the configured
// organization.
func (c *Client) IsOrganizationMember(ctx context.Context, userID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/users/"+userID+"/organization_memberships", nil)
	if err != nil {
		return false, &AuthError{Err: fmt.Errorf("create membership request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, &AuthError{Err: fmt.Errorf("request memberships: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, &AuthError{Err: fmt.Errorf("read membership response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, &AuthError{Message: upstreamMessage(data)}
	}

	var memberships membershipResponse
	if err := json.Unmarshal(data, &memberships); err != nil {
		return false, &AuthError{Err: fmt.Errorf("decode membership response: %w", err)}
	}

	for _, m := range memberships.Data {
		if m.Organization.ID == c.orgID {
			return true, nil
		}
	}
	return false, nil
}

// upstreamMessage extracts the provider's error message from a JSON body,
// falling back to the raw body text.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "identity provider returned non-JSON response: " + string(body)
	}
	if parsed.Message != "" {
		return "identity provider error: " + parsed.Message
	}
	if len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		return "identity provider error: " + parsed.Errors[0].Message
	}
	return "identity provider error: " + string(body)
}
