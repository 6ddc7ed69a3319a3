package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

// fakeImageClient serves canned bytes and can hold requests open so tests can
// line up concurrent callers.
type fakeImageClient struct {
	mu      sync.Mutex
	calls   int
	body    []byte
	status  int
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeImageClient) Get(ctx context.Context, _ string, _ map[string]string) (httpclient.Response, error) {
	f.mu.Lock()
	f.calls++
	started := f.started
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return httpclient.Response{}, ctx.Err()
		}
	}
	if f.err != nil {
		return httpclient.Response{}, f.err
	}
	return httpclient.Response{StatusCode: f.status, Body: f.body}, nil
}

func (f *fakeImageClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLoadCachesDecodedImage(t *testing.T) {
	fake := &fakeImageClient{status: 200, body: pngBytes(t)}
	loader := NewLoader(fake, Options{})

	const url = "https://img.example.com/a.png"
	first, err := loader.Load(context.Background(), url)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := loader.Load(context.Background(), url)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first == nil || second == nil {
		t.Fatalf("expected decoded images, got %v / %v", first, second)
	}
	if fake.callCount() != 1 {
		t.Fatalf("expected cache hit on second load, got %d fetches", fake.callCount())
	}
	if loader.Len() != 1 {
		t.Fatalf("expected 1 cached image, got %d", loader.Len())
	}
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	fake := &fakeImageClient{
		status:  200,
		body:    pngBytes(t),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	loader := NewLoader(fake, Options{})

	const url = "https://img.example.com/a.png"
	results := make(chan image.Image, 2)
	fails := make(chan error, 2)
	load := func() {
		img, err := loader.Load(context.Background(), url)
		if err != nil {
			fails <- err
			return
		}
		results <- img
	}

	go load()
	select {
	case <-fake.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first load never reached the network")
	}

	go load()
	time.Sleep(50 * time.Millisecond) // let the second caller join the flight
	close(fake.release)

	for i := 0; i < 2; i++ {
		select {
		case img := <-results:
			if img == nil {
				t.Fatalf("caller %d got nil image", i)
			}
		case err := <-fails:
			t.Fatalf("caller %d failed: %v", i, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("caller %d never resolved", i)
		}
	}

	if fake.callCount() != 1 {
		t.Fatalf("expected a single deduplicated fetch, got %d", fake.callCount())
	}
}

func TestFailedLoadNotCachedByDefault(t *testing.T) {
	fake := &fakeImageClient{err: errors.New("boom")}
	loader := NewLoader(fake, Options{})

	const url = "https://img.example.com/broken.png"
	if _, err := loader.Load(context.Background(), url); err == nil {
		t.Fatalf("expected first load to fail")
	}
	if _, err := loader.Load(context.Background(), url); err == nil {
		t.Fatalf("expected second load to fail")
	}
	if fake.callCount() != 2 {
		t.Fatalf("expected failure to be refetched, got %d fetches", fake.callCount())
	}
}

func TestCacheFailuresSkipsRefetch(t *testing.T) {
	fake := &fakeImageClient{err: errors.New("boom")}
	loader := NewLoader(fake, Options{CacheFailures: true})

	const url = "https://img.example.com/broken.png"
	if _, err := loader.Load(context.Background(), url); err == nil {
		t.Fatalf("expected first load to fail")
	}
	_, err := loader.Load(context.Background(), url)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected cached failure marker, got %v", err)
	}
	if fake.callCount() != 1 {
		t.Fatalf("expected no refetch after negative caching, got %d", fake.callCount())
	}
}

func TestLoadRejectsUndecodableBody(t *testing.T) {
	fake := &fakeImageClient{status: 200, body: []byte("not an image")}
	loader := NewLoader(fake, Options{})

	if _, err := loader.Load(context.Background(), "https://img.example.com/a.png"); err == nil {
		t.Fatalf("expected decode error")
	}
	if loader.Len() != 0 {
		t.Fatalf("decode failure must not populate the cache")
	}
}

func TestLoadRejectsErrorStatus(t *testing.T) {
	fake := &fakeImageClient{status: 404, body: []byte("gone")}
	loader := NewLoader(fake, Options{})

	if _, err := loader.Load(context.Background(), "https://img.example.com/a.png"); err == nil {
		t.Fatalf("expected status error")
	}
}
