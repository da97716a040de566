package cmsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// url builds a complete URL from the base URL, a path and optional query
// parameters.
func (c *Client) url(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs an HTTP request against the backend. A non-empty token is sent
// as a bearer Authorization header; a non-nil body is JSON encoded.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	token string,
) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doAuth performs an authenticated request using the session's access token,
// refreshing it first if expired.
func (s *Session) doAuth(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	return s.client.do(ctx, method, path, query, body, token)
}

// decodeData decodes a response into target, unwrapping the backend's
// {"data": ...} envelope. Non-2xx responses are converted to typed errors.
// A nil target discards the body after the status check.
func decodeData(resp *http.Response, target any) error {
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil || len(bodyBytes) == 0 {
		return nil
	}

	// Custom endpoints may reply without the {"data": ...} envelope; fall
	// back to the raw body when unwrapping finds nothing.
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw := json.RawMessage(bodyBytes)
	if err := json.Unmarshal(bodyBytes, &envelope); err == nil && envelope.Data != nil {
		raw = envelope.Data
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
