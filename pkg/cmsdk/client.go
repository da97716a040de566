package cmsdk

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is a handle to one CMS backend. It provides the unauthenticated
// operations and creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Storage persists session tokens across processes. When nil, tokens
	// live only in memory and RestoreSession always reports ErrNoSession.
	Storage TokenStorage

	// Limiter, when set, paces every outgoing request. The backend applies
	// its own limits; this keeps a misbehaving caller from tripping them.
	Limiter *rate.Limiter
}

// New creates a new CMS client with a 10 second request timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
