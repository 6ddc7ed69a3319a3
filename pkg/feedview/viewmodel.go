package feedview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/pkg/neterr"
	"github.com/samvad-hq/samvad-news-reader/pkg/newsapi"
	"github.com/samvad-hq/samvad-news-reader/pkg/observe"
)

// Config wires a ViewModel.
type Config struct {
	// Fetcher performs the feed request.
	Fetcher newsapi.Fetcher
	// Endpoint builds the request for each fetch call.
	Endpoint func() newsapi.Endpoint
	// Debounce overrides the search quiet period; zero means DefaultDebounce.
	Debounce time.Duration
}

// fetchResult carries one completed API call back onto the owner loop.
type fetchResult struct {
	gen      uint64
	articles []domain.Article
	err      error
}

// ViewModel composes the fetch state machine and the search pipeline into the
// single observable surface the UI consumes. All state lives on one owner
// goroutine; network completions and query edits are marshaled onto it via
// channels, so observers always see whole transitions, never partial updates.
type ViewModel struct {
	fetcher  newsapi.Fetcher
	endpoint func() newsapi.Endpoint

	state     *observe.Value[ViewState]
	displayed *observe.Value[[]domain.Article]

	deb     *debouncer
	fetchCh chan struct{}
	queryCh chan string
	results chan fetchResult

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a ViewModel with its owner loop and debouncer running.
func New(cfg Config) (*ViewModel, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("feedview: fetcher is required")
	}
	if cfg.Endpoint == nil {
		return nil, errors.New("feedview: endpoint builder is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	vm := &ViewModel{
		fetcher:   cfg.Fetcher,
		endpoint:  cfg.Endpoint,
		state:     observe.NewValue(Idle()),
		displayed: observe.NewValue[[]domain.Article](nil),
		deb:       newDebouncer(cfg.Debounce),
		fetchCh:   make(chan struct{}, 1),
		queryCh:   make(chan string, 16),
		results:   make(chan fetchResult, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go vm.deb.run(ctx)
	go vm.loop(ctx)
	return vm, nil
}

// State exposes the observable fetch lifecycle state.
func (vm *ViewModel) State() *observe.Value[ViewState] { return vm.state }

// Displayed exposes the observable article list the UI should render: the
// filtered set while a search is active, otherwise the fetched set.
func (vm *ViewModel) Displayed() *observe.Value[[]domain.Article] { return vm.displayed }

// Fetch requests a new feed load. A fetch already in flight is superseded:
// its request context is cancelled and its completion discarded.
func (vm *ViewModel) Fetch() {
	select {
	case vm.fetchCh <- struct{}{}:
	case <-vm.done:
	}
}

// SetQuery forwards one raw query edit (typically a keystroke) into the
// search pipeline.
func (vm *ViewModel) SetQuery(raw string) {
	select {
	case vm.queryCh <- raw:
	case <-vm.done:
	}
}

// Close stops the owner loop and cancels any in-flight request.
func (vm *ViewModel) Close() {
	vm.closeOnce.Do(func() {
		vm.cancel()
		<-vm.done
	})
}

// loop is the single writer for all view state.
func (vm *ViewModel) loop(ctx context.Context) {
	defer close(vm.done)

	var (
		fetched  []domain.Article
		filtered []domain.Article
		rawQuery string
		effQuery string
		gen      uint64
		inflight context.CancelFunc
		// pending holds a Loading/Error transition suppressed while the
		// user is filtering existing results; it is published once the
		// search clears.
		pending *ViewState
	)

	searching := func() bool { return strings.TrimSpace(rawQuery) != "" }

	publishDisplayed := func() {
		if searching() {
			vm.displayed.Set(filtered)
		} else {
			vm.displayed.Set(fetched)
		}
	}

	publishState := func(st ViewState) {
		// A full-screen loading or error takeover must not interrupt an
		// active search over already-fetched results.
		if searching() && len(fetched) > 0 && (st.Kind == StateLoading || st.Kind == StateError) {
			pending = &st
			return
		}
		pending = nil
		vm.state.Set(st)
	}

	flushPending := func() {
		if pending == nil || searching() {
			return
		}
		st := *pending
		pending = nil
		vm.state.Set(st)
	}

	for {
		select {
		case <-ctx.Done():
			if inflight != nil {
				inflight()
			}
			return

		case <-vm.fetchCh:
			gen++
			if inflight != nil {
				inflight()
			}
			fctx, cancel := context.WithCancel(ctx)
			inflight = cancel
			publishState(Loading())
			go vm.runFetch(fctx, gen)

		case res := <-vm.results:
			if res.gen != gen {
				// Completion of a superseded fetch; never applied.
				continue
			}
			if inflight != nil {
				inflight()
				inflight = nil
			}
			switch {
			case res.err != nil:
				publishState(Failed(userMessage(res.err)))
			case len(res.articles) == 0:
				fetched = nil
				filtered = Filter(fetched, effQuery)
				publishState(Empty())
				publishDisplayed()
			default:
				fetched = res.articles
				filtered = Filter(fetched, effQuery)
				publishState(Loaded(fetched))
				publishDisplayed()
			}

		case raw := <-vm.queryCh:
			rawQuery = raw
			select {
			case vm.deb.in <- raw:
			case <-ctx.Done():
			}
			// The searching flag flips on the raw value immediately; only
			// the filtered content waits for the debounce.
			flushPending()
			publishDisplayed()

		case eff := <-vm.deb.out:
			effQuery = eff
			filtered = Filter(fetched, effQuery)
			publishDisplayed()
		}
	}
}

// runFetch performs one API call off the owner loop and reports back.
func (vm *ViewModel) runFetch(ctx context.Context, gen uint64) {
	articles, err := vm.fetcher.Fetch(ctx, vm.endpoint())
	select {
	case vm.results <- fetchResult{gen: gen, articles: articles, err: err}:
	case <-vm.done:
	}
}

// userMessage resolves any fetch error to its pre-localized text. Errors that
// somehow bypass classification still map to the generic unknown message
// rather than leaking outward.
func userMessage(err error) string {
	var ne *neterr.Error
	if errors.As(err, &ne) {
		return ne.Message()
	}
	return neterr.New(neterr.KindUnknown, fmt.Errorf("unclassified: %w", err)).Message()
}
