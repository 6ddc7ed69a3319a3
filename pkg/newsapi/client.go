package newsapi

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-reader/pkg/neterr"
)

// Fetcher is the read surface consumed by the view layer.
type Fetcher interface {
	Fetch(ctx context.Context, ep Endpoint) ([]domain.Article, error)
}

// Client fetches and decodes one feed page per call. Errors always come back
// as a classified *neterr.Error; retry policy belongs to the caller.
type Client struct {
	http httpclient.Client
	env  Environment
}

// DefaultHTTPClient returns a tuned HTTP client for feed requests.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(15 * time.Second)
}

// NewClient builds a feed client against the given environment.
func NewClient(client httpclient.Client, env Environment) *Client {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Client{http: client, env: env}
}

// Environment returns the environment this client targets.
func (c *Client) Environment() Environment { return c.env }

// Fetch issues exactly one GET for the endpoint, validates the HTTP status,
// decodes the body, and maps the items into domain articles. A URL that
// cannot be built fails fast with no network I/O.
func (c *Client) Fetch(ctx context.Context, ep Endpoint) ([]domain.Article, error) {
	u, err := ep.URL(c.env.BaseURL)
	if err != nil {
		return nil, neterr.New(neterr.KindInvalidURL, err)
	}

	resp, err := c.http.Get(ctx, u, nil)
	if err != nil {
		return nil, neterr.Classify(err)
	}
	if !resp.OK() {
		return nil, neterr.HTTPStatus(resp.StatusCode)
	}

	dtos, err := decodeFeed(resp.Body)
	if err != nil {
		return nil, neterr.New(neterr.KindDecodingFailed, err)
	}

	articles := make([]domain.Article, 0, len(dtos))
	for _, dto := range dtos {
		articles = append(articles, dto.toDomain())
	}
	return articles, nil
}
