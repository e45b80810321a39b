package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Routes maps route names to path patterns such as "/items/{id}". It
// resolves the Location of created-at-route results, both when a handler
// produces one and when one is replayed from the cache.
type Routes map[string]string

// URL expands the pattern of name with values. Values without a placeholder
// in the pattern become query parameters.
func (rt Routes) URL(name string, values map[string]string) (string, error) {
	pattern, ok := rt[name]
	if !ok {
		return "", fmt.Errorf("route %q is not registered", name)
	}

	path := pattern
	query := url.Values{}
	for k, v := range values {
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(v))
			continue
		}
		query.Set(k, v)
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("route %q: missing values for %s", name, path)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path, nil
}

// CreatedAtRoute writes value as JSON with status 201 and a Location header
// pointing at the named route. Behind the idempotency middleware the result
// is cached as a created-at-route body so a replay rebuilds the Location.
func (rt Routes) CreatedAtRoute(w http.ResponseWriter, name string, values map[string]string, value any) error {
	location, err := rt.URL(name, values)
	if err != nil {
		return err
	}
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if rec := findRecorder(w); rec != nil {
		rec.markCreatedAtRoute(name, values)
	}

	w.Header().Set("Location", location)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_, err = w.Write(body)
	return err
}
