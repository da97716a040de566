// Package routes holds the static path-to-view table the shell navigates
// with. It is data, not a router: matching resolves a path to a named view
// plus any dynamic params, and the auth guard is evaluated separately by the
// caller.
package routes

import "strings"

// Route is one entry in the table.
type Route struct {
	// Path is the route pattern. Segments starting with ":" are dynamic.
	Path string

	// Name identifies the view the route renders.
	Name string

	// RequiresAuth gates the route behind an authenticated session.
	// Children inherit the flag.
	RequiresAuth bool

	// HideChrome is a rendering hint for views that draw without the
	// surrounding shell. Not a security boundary.
	HideChrome bool

	Children []Route
}

// NotFoundName is the view the catch-all resolves to.
const NotFoundName = "not-found"

// Table returns the application's route table.
func Table() []Route {
	return []Route{
		{Path: "/", Name: "index"},
		{Path: "/login", Name: "login"},
		{Path: "/reset-password", Name: "reset-password"},
		{Path: "/mood", Name: "mood"},
		{
			Path:         "/dashboard",
			Name:         "dashboard",
			RequiresAuth: true,
			Children: []Route{
				{Path: "team", Name: "dashboard-team"},
				{Path: "peoples", Name: "dashboard-peoples"},
				{Path: "/user/:id", Name: "user-profile", HideChrome: true},
			},
		},
	}
}

// Match is a resolved route: the matched entry with inherited guard flags
// applied, plus any dynamic params.
type Match struct {
	Route  Route
	Params map[string]string
}

// Resolve matches a path against the table. Unknown paths resolve to the
// catch-all not-found route; ok is false only for that case.
func Resolve(path string) (Match, bool) {
	path = normalize(path)

	for _, route := range Table() {
		if m, ok := match(route, "", path, false); ok {
			return m, true
		}
	}

	return Match{Route: Route{Path: path, Name: NotFoundName}}, false
}

// Allowed evaluates the auth guard for a resolved route.
func Allowed(m Match, authenticated bool) bool {
	return !m.Route.RequiresAuth || authenticated
}

// match tries route (and its children) against path. Absolute child paths
// replace the parent prefix; relative ones append to it. Children inherit
// the parent's RequiresAuth flag.
func match(route Route, parent, path string, inheritAuth bool) (Match, bool) {
	full := join(parent, route.Path)
	requiresAuth := route.RequiresAuth || inheritAuth

	if params, ok := matchPattern(full, path); ok {
		matched := route
		matched.Path = full
		matched.RequiresAuth = requiresAuth
		return Match{Route: matched, Params: params}, true
	}

	for _, child := range route.Children {
		if m, ok := match(child, full, path, requiresAuth); ok {
			return m, true
		}
	}

	return Match{}, false
}

func join(parent, path string) string {
	if strings.HasPrefix(path, "/") {
		return normalize(path)
	}
	if path == "" {
		return normalize(parent)
	}
	return normalize(strings.TrimSuffix(parent, "/") + "/" + path)
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// matchPattern compares a pattern and a concrete path segment by segment,
// collecting ":" params.
func matchPattern(pattern, path string) (map[string]string, bool) {
	if pattern == path {
		return nil, true
	}

	patternSegs := split(pattern)
	pathSegs := split(path)
	if len(patternSegs) != len(pathSegs) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, ":") {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = pathSegs[i]
			continue
		}
		if seg != pathSegs[i] {
			return nil, false
		}
	}

	return params, true
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
