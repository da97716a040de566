package cmsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// authPayload is the token payload returned by the auth endpoints.
type authPayload struct {
	AccessToken string `json:"access_token"`

	// Expires is how long the access token is valid for, in milliseconds.
	Expires int64 `json:"expires"`

	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for an authenticated Session. The session's
// tokens are persisted through the client's Storage, if configured.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, map[string]string{
		"email":    email,
		"password": password,
	})
}

// LoginWithOTP is Login with a one-time code for accounts that have
// two-factor authentication enabled. The code is collected from the user and
// passed through untouched.
func (c *Client) LoginWithOTP(ctx context.Context, email, password, otp string) (*Session, error) {
	return c.login(ctx, map[string]string{
		"email":    email,
		"password": password,
		"otp":      otp,
	})
}

func (c *Client) login(ctx context.Context, credentials map[string]string) (*Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials, "")
	if err != nil {
		return nil, err
	}

	var payload authPayload
	if err := decodeData(resp, &payload); err != nil {
		return nil, err
	}
	if payload.AccessToken == "" {
		return nil, errors.New("cmsdk: no access token received")
	}

	session := newSession(c, payload)
	session.persist(ctx)
	return session, nil
}

// refreshGrant requests new tokens using a refresh token.
func (c *Client) refreshGrant(ctx context.Context, refreshToken string) (*authPayload, error) {
	body := map[string]string{
		"refresh_token": refreshToken,
		"mode":          "json",
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, "")
	if err != nil {
		return nil, err
	}

	var payload authPayload
	if err := decodeData(resp, &payload); err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return &payload, nil
}

// RevokeToken invalidates a refresh token on the backend.
func (c *Client) RevokeToken(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}

	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, body, "")
	if err != nil {
		return err
	}
	return decodeData(resp, nil)
}

// PasswordRequest fires a password-reset email for the given address.
func (c *Client) PasswordRequest(ctx context.Context, email string) error {
	body := map[string]string{"email": email}

	resp, err := c.do(ctx, http.MethodPost, "/auth/password/request", nil, body, "")
	if err != nil {
		return err
	}
	return decodeData(resp, nil)
}

// PasswordReset completes a password reset using the token from the reset
// email.
func (c *Client) PasswordReset(ctx context.Context, token, newPassword string) error {
	body := map[string]string{
		"token":    token,
		"password": newPassword,
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/password/reset", nil, body, "")
	if err != nil {
		return err
	}
	return decodeData(resp, nil)
}

// RestoreSession rebuilds a Session from persisted tokens. It returns
// ErrNoSession when the storage holds nothing usable. An expired access token
// is still restorable while a refresh token remains; the first authenticated
// call refreshes it.
func (c *Client) RestoreSession(ctx context.Context) (*Session, error) {
	if c.Storage == nil {
		return nil, ErrNoSession
	}

	data, err := c.Storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored session: %w", err)
	}
	if data == nil || (data.AccessToken == "" && data.RefreshToken == "") {
		return nil, ErrNoSession
	}

	expiresAt := data.ExpiresAt
	if expiresAt.IsZero() {
		// Older entries carry no expiry; read it off the JWT itself.
		expiresAt = tokenExpiry(data.AccessToken).Add(-expiryBuffer)
	}

	if time.Now().After(expiresAt) && data.RefreshToken == "" {
		_ = c.Storage.Clear(ctx)
		return nil, ErrNoSession
	}

	return &Session{
		client:       c,
		accessToken:  data.AccessToken,
		refreshToken: data.RefreshToken,
		expiresAt:    expiresAt,
	}, nil
}
