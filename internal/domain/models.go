package domain

import "net/url"

// Domain contains core models shared across packages.

// Article is a single feed item as consumed by view code. Instances are
// produced only by mapping the wire DTO and are never mutated afterwards.
type Article struct {
	Title       string
	Description string
	ImageURL    *url.URL
}
