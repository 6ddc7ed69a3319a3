package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	// Register the decoders for the formats the feed serves.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/singleflight"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

// ErrUnavailable marks a URL whose load already failed and was negatively
// cached; callers render a placeholder without another fetch.
var ErrUnavailable = errors.New("imagecache: image unavailable")

// Options tunes loader behavior.
type Options struct {
	// CacheFailures records failed loads so the same broken URL is not
	// refetched for the rest of the session. Off by default: a transient
	// failure should not poison the cache.
	CacheFailures bool
}

// Loader fetches and caches decoded images keyed by URL. The cache lives for
// the process lifetime with no eviction. Concurrent loads for the same URL
// collapse into a single network fetch whose result every caller receives.
type Loader struct {
	client        httpclient.Client
	cacheFailures bool

	group  singleflight.Group
	mu     sync.RWMutex
	images map[string]image.Image
	failed map[string]struct{}
}

// DefaultHTTPClient returns a tuned HTTP client for image fetches.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(30 * time.Second)
}

// NewLoader builds a loader around the given HTTP client.
func NewLoader(client httpclient.Client, opts Options) *Loader {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Loader{
		client:        client,
		cacheFailures: opts.CacheFailures,
		images:        make(map[string]image.Image),
		failed:        make(map[string]struct{}),
	}
}

// Load returns the decoded image for the URL. A cache hit returns without
// network I/O; a miss triggers at most one fetch per URL regardless of how
// many callers are waiting on it. Failures come back as an error and are
// non-fatal by contract: the caller substitutes a placeholder.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	if c, ok := l.lookup(url); ok {
		return c.img, c.err
	}

	v, err, _ := l.group.Do(url, func() (any, error) {
		// A waiter queued behind the winning call re-enters here after
		// the cache was already populated.
		if c, ok := l.lookup(url); ok {
			return c.img, c.err
		}
		img, fetchErr := l.fetch(ctx, url)
		l.store(url, img, fetchErr)
		return img, fetchErr
	})
	if err != nil {
		return nil, err
	}
	img, ok := v.(image.Image)
	if !ok {
		return nil, ErrUnavailable
	}
	return img, nil
}

// cached is one completed-result cache entry.
type cached struct {
	img image.Image
	err error
}

// lookup consults the completed-result cache.
func (l *Loader) lookup(url string) (cached, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if img, ok := l.images[url]; ok {
		return cached{img: img}, true
	}
	if _, ok := l.failed[url]; ok {
		return cached{err: ErrUnavailable}, true
	}
	return cached{}, false
}

func (l *Loader) store(url string, img image.Image, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		l.images[url] = img
		return
	}
	if l.cacheFailures {
		l.failed[url] = struct{}{}
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	resp, err := l.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Len reports the number of successfully cached images.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}
