package newsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// Wire-format types. DTOs live only long enough to be mapped into
// domain.Article and never escape this package.

// articleDTO is one feed item as received from the service. Every field is
// optional on the wire.
type articleDTO struct {
	Title       *string
	Description *string
	URLToImage  *string
}

// decodeFeed unpacks the response envelope. A missing or wrong-typed
// `articles` field is a hard decode failure; anything wrong inside an
// individual item degrades to field-level defaults instead.
func decodeFeed(body []byte) ([]articleDTO, error) {
	var envelope struct {
		Articles json.RawMessage `json:"articles"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode feed envelope: %w", err)
	}
	if len(envelope.Articles) == 0 || string(envelope.Articles) == "null" {
		return nil, errors.New("feed envelope is missing articles")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Articles, &items); err != nil {
		return nil, fmt.Errorf("decode articles list: %w", err)
	}

	out := make([]articleDTO, 0, len(items))
	for _, raw := range items {
		out = append(out, decodeArticle(raw))
	}
	return out, nil
}

// decodeArticle reads one item leniently: a malformed field falls back to
// its zero value rather than rejecting the item or the batch.
func decodeArticle(raw json.RawMessage) articleDTO {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return articleDTO{}
	}
	return articleDTO{
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		URLToImage:  stringField(fields, "urlToImage"),
	}
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// toDomain maps the DTO onto the immutable domain model, substituting empty
// strings for absent text and dropping unparseable image URLs.
func (d articleDTO) toDomain() domain.Article {
	return domain.Article{
		Title:       stringOrEmpty(d.Title),
		Description: stringOrEmpty(d.Description),
		ImageURL:    parseImageURL(d.URLToImage),
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseImageURL accepts only absolute http(s) URLs; anything else is treated
// as no image.
func parseImageURL(raw *string) *url.URL {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil
	}
	return u
}
