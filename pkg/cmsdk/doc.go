/*
Package cmsdk is a client for a Directus-style headless CMS backend.

The package is organised around two types:

  - Client: unauthenticated operations (login, password reset) and session
    restoration from persisted tokens
  - Session: authenticated collection operations with automatic token refresh

Create a Client per backend and log in to obtain a Session:

	client := cmsdk.New("https://cms.example.com")
	client.Storage = storage // durable TokenStorage, optional

	session, err := client.Login(ctx, "user@example.com", "secret")
	if err != nil {
		return err
	}

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	err = session.ReadMe(ctx, cmsdk.Query{Fields: []string{"id", "email"}}, &me)

Sessions refresh their access token automatically with a 30 second buffer
before expiry, and every token change is written through the configured
TokenStorage under a fixed key so a later process can restore the session:

	session, err := client.RestoreSession(ctx)
	if errors.Is(err, cmsdk.ErrNoSession) {
		// nothing persisted, interactive login required
	}

Collection reads accept a Query describing filter predicates (field equality),
sort keys (a "-" prefix means descending), a field-selection list with
dot-path relation expansion, a free-text search and a result limit. Remote
failures are returned as *APIError carrying the backend's error code; an
empty list result is data, not an error.

Sessions are safe for concurrent use.
*/
package cmsdk
