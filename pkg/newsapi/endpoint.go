package newsapi

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Endpoint describes one logical request against the news service: a fixed
// path below the environment base URL plus its query parameters.
type Endpoint struct {
	Path  string
	Query url.Values
}

const (
	everythingPath = "/everything"

	// DefaultSortBy orders results by publication time, newest first.
	DefaultSortBy = "publishedAt"
)

// Everything builds the feed endpoint for a search term with a date lower
// bound and sort key. Extra query parameters may be added by the caller
// before the request is issued.
func Everything(query string, from time.Time, sortBy, apiKey string) Endpoint {
	if strings.TrimSpace(sortBy) == "" {
		sortBy = DefaultSortBy
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("from", from.Format("2006-01-02"))
	q.Set("sortBy", sortBy)
	q.Set("apiKey", apiKey)

	return Endpoint{Path: everythingPath, Query: q}
}

// With returns a copy of the endpoint carrying an extra query parameter.
func (e Endpoint) With(key, value string) Endpoint {
	q := url.Values{}
	for k, vs := range e.Query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(key, value)
	return Endpoint{Path: e.Path, Query: q}
}

// URL resolves the endpoint against the environment base URL. The base URL
// may itself carry a path prefix (e.g. /v2), which is preserved.
func (e Endpoint) URL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", baseURL)
	}

	u.Path = strings.TrimRight(u.Path, "/") + e.Path
	u.RawQuery = e.Query.Encode()
	return u.String(), nil
}
