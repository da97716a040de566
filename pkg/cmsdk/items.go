package cmsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListItems reads items from a named collection into out, which should be a
// pointer to a slice. An empty result decodes to an empty slice, not an
// error.
func (s *Session) ListItems(ctx context.Context, collection string, q Query, out any) error {
	return s.getJSON(ctx, "/items/"+url.PathEscape(collection), q, out)
}

// ReadItem reads a single item by id.
func (s *Session) ReadItem(ctx context.Context, collection, id string, q Query, out any) error {
	path := fmt.Sprintf("/items/%s/%s", url.PathEscape(collection), url.PathEscape(id))
	return s.getJSON(ctx, path, q, out)
}

// CreateItem creates an item in a named collection. The created item, with
// its server-assigned fields, decodes into out when non-nil.
func (s *Session) CreateItem(ctx context.Context, collection string, item, out any) error {
	resp, err := s.doAuth(ctx, http.MethodPost, "/items/"+url.PathEscape(collection), nil, item)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

// ListUsers reads from the system users collection.
func (s *Session) ListUsers(ctx context.Context, q Query, out any) error {
	return s.getJSON(ctx, "/users", q, out)
}

// ReadUser reads a single user by id.
func (s *Session) ReadUser(ctx context.Context, id string, q Query, out any) error {
	return s.getJSON(ctx, "/users/"+url.PathEscape(id), q, out)
}

// ReadMe reads the authenticated user's own record.
func (s *Session) ReadMe(ctx context.Context, q Query, out any) error {
	return s.getJSON(ctx, "/users/me", q, out)
}

// Get performs an authenticated GET against a bespoke endpoint outside the
// collection surface, e.g. "/badges-user/{id}".
func (s *Session) Get(ctx context.Context, path string, out any) error {
	resp, err := s.doAuth(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

func (s *Session) getJSON(ctx context.Context, path string, q Query, out any) error {
	values, err := q.Values()
	if err != nil {
		return err
	}

	resp, err := s.doAuth(ctx, http.MethodGet, path, values, nil)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}
