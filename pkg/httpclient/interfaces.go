package httpclient

import "context"

// Response is the minimal slice of an HTTP exchange the callers need.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx success range.
func (r Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode <= 299 }

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
