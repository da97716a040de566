package cmsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success creates session and persists tokens", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/login", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "ada@example.com", body["email"])
			require.Equal(t, "secret", body["password"])

			writeData(t, w, authPayload{
				AccessToken:  "access-1",
				Expires:      900000, // 15m in ms
				RefreshToken: "refresh-1",
			})
		}))
		defer srv.Close()

		client := New(srv.URL)
		storage := NewMemoryStorage()
		client.Storage = storage

		session, err := client.Login(context.Background(), "ada@example.com", "secret")
		require.NoError(t, err)
		require.Equal(t, "access-1", session.AccessToken())
		require.Equal(t, "refresh-1", session.RefreshToken())

		stored, err := storage.Load(context.Background())
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Equal(t, "access-1", stored.AccessToken)
		require.Equal(t, "refresh-1", stored.RefreshToken)
		require.WithinDuration(t, time.Now().Add(15*time.Minute), stored.ExpiresAt, time.Minute)
	})

	t.Run("invalid credentials return typed error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusUnauthorized, ErrorCodeInvalidCredentials, "Invalid user credentials.")
		}))
		defer srv.Close()

		client := New(srv.URL)
		_, err := client.Login(context.Background(), "ada@example.com", "wrong")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, ErrorCodeInvalidCredentials, apiErr.Code)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("missing access token is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeData(t, w, authPayload{})
		}))
		defer srv.Close()

		client := New(srv.URL)
		_, err := client.Login(context.Background(), "ada@example.com", "secret")
		require.ErrorContains(t, err, "no access token")
	})

	t.Run("otp passes through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "123456", body["otp"])
			writeData(t, w, authPayload{AccessToken: "a", Expires: 900000, RefreshToken: "r"})
		}))
		defer srv.Close()

		client := New(srv.URL)
		_, err := client.LoginWithOTP(context.Background(), "ada@example.com", "secret", "123456")
		require.NoError(t, err)
	})
}

func TestPasswordRequest(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/password/request", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := New(srv.URL)
		require.NoError(t, client.PasswordRequest(context.Background(), "ada@example.com"))
	})

	t.Run("failure surfaces backend code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusBadRequest, ErrorCodeInvalidPayload, "Invalid email.")
		}))
		defer srv.Close()

		client := New(srv.URL)
		err := client.PasswordRequest(context.Background(), "not-an-email")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, ErrorCodeInvalidPayload, apiErr.Code)
	})
}

func TestRestoreSession(t *testing.T) {
	t.Parallel()

	t.Run("no storage", func(t *testing.T) {
		client := New("http://cms.local")
		_, err := client.RestoreSession(context.Background())
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("empty storage", func(t *testing.T) {
		client := New("http://cms.local")
		client.Storage = NewMemoryStorage()
		_, err := client.RestoreSession(context.Background())
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("valid stored tokens restore", func(t *testing.T) {
		client := New("http://cms.local")
		storage := NewMemoryStorage()
		client.Storage = storage

		require.NoError(t, storage.Save(context.Background(), &AuthData{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    time.Now().Add(10 * time.Minute),
		}))

		session, err := client.RestoreSession(context.Background())
		require.NoError(t, err)
		require.Equal(t, "access-1", session.AccessToken())
		require.Equal(t, "refresh-1", session.RefreshToken())
	})

	t.Run("expiry read from jwt when entry carries none", func(t *testing.T) {
		client := New("http://cms.local")
		storage := NewMemoryStorage()
		client.Storage = storage

		token := unsignedJWT(t, time.Now().Add(10*time.Minute))
		require.NoError(t, storage.Save(context.Background(), &AuthData{
			AccessToken: token,
		}))

		session, err := client.RestoreSession(context.Background())
		require.NoError(t, err)
		require.Equal(t, token, session.AccessToken())
	})

	t.Run("expired without refresh token clears storage", func(t *testing.T) {
		client := New("http://cms.local")
		storage := NewMemoryStorage()
		client.Storage = storage

		require.NoError(t, storage.Save(context.Background(), &AuthData{
			AccessToken: "stale",
			ExpiresAt:   time.Now().Add(-time.Minute),
		}))

		_, err := client.RestoreSession(context.Background())
		require.ErrorIs(t, err, ErrNoSession)

		stored, err := storage.Load(context.Background())
		require.NoError(t, err)
		require.Nil(t, stored)
	})

	t.Run("expired with refresh token still restores", func(t *testing.T) {
		client := New("http://cms.local")
		storage := NewMemoryStorage()
		client.Storage = storage

		require.NoError(t, storage.Save(context.Background(), &AuthData{
			AccessToken:  "stale",
			RefreshToken: "refresh-1",
			ExpiresAt:    time.Now().Add(-time.Minute),
		}))

		session, err := client.RestoreSession(context.Background())
		require.NoError(t, err)
		require.Equal(t, "refresh-1", session.RefreshToken())
	})
}
