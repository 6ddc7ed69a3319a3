package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/config"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/pkg/feedview"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-reader/pkg/imagecache"
	"github.com/samvad-hq/samvad-news-reader/pkg/newsapi"
	"github.com/samvad-hq/samvad-news-reader/pkg/notify"
)

// warmImageCount bounds how many article images are prefetched per load.
const warmImageCount = 8

// Reader is the composition root of the feed client: it wires the API client,
// the image loader, the notifier fanout, and the view model, and owns their
// lifetimes. UI layers observe the view model; Reader itself only logs.
type Reader struct {
	cfg    *config.Config
	env    newsapi.Environment
	vm     *feedview.ViewModel
	images *imagecache.Loader
	fanout *notify.Fanout
	log    logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	unsubs []func()
}

// NewReader builds a reader runtime from config.
func NewReader(cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	env, err := resolveEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	log.InfoObj("environment resolved", "environment", map[string]any{
		"name":     env.Name,
		"base_url": env.BaseURL,
	})

	fanout, err := buildFanout(cfg)
	if err != nil {
		return nil, err
	}
	if fanout.Size() > 0 {
		log.InfoObj("notifiers loaded", "notifiers_count", fanout.Size())
	}

	apiClient := newsapi.NewClient(httpclient.NewRestyClient(cfg.HTTPTimeout), env)
	images := imagecache.NewLoader(
		httpclient.NewRestyClient(cfg.ImageTimeout),
		imagecache.Options{CacheFailures: cfg.CacheImageFailures},
	)

	vm, err := feedview.New(feedview.Config{
		Fetcher: apiClient,
		Endpoint: func() newsapi.Endpoint {
			return newsapi.Everything(cfg.Query, cfg.From(time.Now()), cfg.SortBy, env.APIKey)
		},
		Debounce: cfg.SearchDebounce,
	})
	if err != nil {
		return nil, fmt.Errorf("init view model: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Reader{
		cfg:    cfg,
		env:    env,
		vm:     vm,
		images: images,
		fanout: fanout,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	r.observe()
	return r, nil
}

// resolveEnvironment loads the environment registry (override file or
// built-ins) and applies the optional api key override.
func resolveEnvironment(cfg *config.Config) (newsapi.Environment, error) {
	var (
		reg *newsapi.EnvironmentRegistry
		err error
	)
	if cfg.EnvironmentsFile != "" {
		reg, err = newsapi.LoadEnvironments(cfg.EnvironmentsFile)
		if err != nil {
			return newsapi.Environment{}, fmt.Errorf("load environments registry: %w", err)
		}
	} else {
		reg, err = newsapi.NewEnvironmentRegistry(newsapi.DefaultEnvironments()...)
		if err != nil {
			return newsapi.Environment{}, fmt.Errorf("init environments registry: %w", err)
		}
	}

	env, ok := reg.ByName(cfg.Env)
	if !ok {
		return newsapi.Environment{}, fmt.Errorf("unknown environment %q", cfg.Env)
	}
	if cfg.APIKey != "" {
		env.APIKey = cfg.APIKey
	}
	return env, nil
}

// buildFanout materializes the configured notifier sinks, or an empty fanout
// when none are configured.
func buildFanout(cfg *config.Config) (*notify.Fanout, error) {
	if cfg.NotifiersFile == "" {
		return notify.NewFanout(nil), nil
	}

	reg, err := notify.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}
	notifiers, err := notify.BuildAll(notify.DefaultRegistry(), reg.Enabled())
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}
	return notify.NewFanout(notifiers), nil
}

// observe attaches the runtime's subscribers: transition logging, terminal
// event fanout, and image cache warming.
func (r *Reader) observe() {
	unsubState := r.vm.State().Subscribe(func(st feedview.ViewState) {
		r.log.InfoObj("view state changed", "view_state", map[string]any{
			"state":    st.Kind.String(),
			"articles": len(st.Articles),
			"message":  st.Message,
		})
		switch st.Kind {
		case feedview.StateLoaded:
			go r.warmImages(st.Articles)
			r.notifyTerminal(st)
		case feedview.StateEmpty, feedview.StateError:
			r.notifyTerminal(st)
		}
	})

	unsubDisplayed := r.vm.Displayed().Subscribe(func(articles []domain.Article) {
		r.log.DebugObj("displayed articles changed", "displayed_count", len(articles))
	})

	r.unsubs = append(r.unsubs, unsubState, unsubDisplayed)
}

// notifyTerminal fans the terminal transition out to configured sinks without
// blocking the state observer.
func (r *Reader) notifyTerminal(st feedview.ViewState) {
	if r.fanout.Size() == 0 {
		return
	}

	evt := notify.NewEvent(r.env.Name, r.cfg.Query, st.Kind.String(), len(st.Articles), st.Message)
	go func() {
		if _, err := r.fanout.Notify(r.ctx, evt); err != nil {
			r.log.WarnObj("notifier fanout failed", "error", err.Error())
		}
	}()
}

// warmImages prefetches the first few article images so list rendering hits
// the cache. Failures are non-fatal; renderers fall back to a placeholder.
func (r *Reader) warmImages(articles []domain.Article) {
	warmed := 0
	for _, a := range articles {
		if a.ImageURL == nil {
			continue
		}
		if warmed >= warmImageCount {
			return
		}
		warmed++
		if _, err := r.images.Load(r.ctx, a.ImageURL.String()); err != nil {
			r.log.DebugObj("image prefetch failed", "image_url", a.ImageURL.String())
		}
	}
}

// ViewModel exposes the observable surface for UI layers.
func (r *Reader) ViewModel() *feedview.ViewModel { return r.vm }

// Images exposes the shared image loader for rendering collaborators.
func (r *Reader) Images() *imagecache.Loader { return r.images }

// Run triggers the initial fetch and forwards each input line as a search
// query edit until the context is cancelled or input ends.
func (r *Reader) Run(ctx context.Context, input io.Reader) error {
	if r == nil || r.vm == nil {
		return fmt.Errorf("reader is not initialized")
	}
	defer r.Close()

	r.vm.Fetch()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("reader exiting", "reason", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			r.vm.SetQuery(line)
		}
	}
}

// Close tears down subscriptions and the view model.
func (r *Reader) Close() {
	if r == nil {
		return
	}
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
	r.cancel()
	r.vm.Close()
}
