package cmsdk

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter is a set of field predicates combined with implicit AND, encoded as
// the backend's JSON filter syntax, e.g. {"active_status":{"_eq":"online"}}.
type Filter map[string]any

// Eq builds an equality predicate for one field.
func Eq(value any) map[string]any {
	return map[string]any{"_eq": value}
}

// Query describes a collection read: which fields to select, how to filter,
// sort and limit, and an optional free-text search.
type Query struct {
	// Fields selects which fields to return. Dot paths expand relations one
	// level deep, e.g. "directus_users_id.avatar.id".
	Fields []string

	// Sort lists sort keys; a "-" prefix means descending.
	Sort []string

	// Limit caps the number of returned items. Zero means backend default.
	Limit int

	// Search applies the backend's free-text search across fields.
	Search string

	// Filter restricts results by field predicates.
	Filter Filter
}

// Values encodes the query as URL parameters.
func (q Query) Values() (url.Values, error) {
	v := url.Values{}

	if len(q.Fields) > 0 {
		v.Set("fields", strings.Join(q.Fields, ","))
	}
	if len(q.Sort) > 0 {
		v.Set("sort", strings.Join(q.Sort, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(q.Filter) > 0 {
		encoded, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		v.Set("filter", string(encoded))
	}

	return v, nil
}
