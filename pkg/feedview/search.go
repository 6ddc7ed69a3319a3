package feedview

import (
	"context"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// effective query updates.
const DefaultDebounce = 300 * time.Millisecond

// normalizeQuery trims and case-folds raw user input into the effective form.
func normalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Filter returns the articles whose title or description contains query,
// case-insensitively. An empty query selects nothing; the UI falls back to
// the unfiltered set when no search is active. Filter is pure: it never
// mutates its input and depends on nothing but its arguments.
func Filter(articles []domain.Article, query string) []domain.Article {
	q := normalizeQuery(query)
	if q == "" {
		return nil
	}

	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			out = append(out, a)
		}
	}
	return out
}

// debouncer gates rapidly-changing query input: the normalized value is
// emitted on out only after the interval elapses with no new distinct input,
// and only when it differs from the last emitted value. A no-op edit (typing
// and deleting back to the same string within the window) emits nothing.
type debouncer struct {
	in       chan string
	out      chan string
	interval time.Duration
}

func newDebouncer(interval time.Duration) *debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &debouncer{
		in:       make(chan string, 16),
		out:      make(chan string, 16),
		interval: interval,
	}
}

func (d *debouncer) run(ctx context.Context) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending, lastEmitted string
	armed := false

	for {
		select {
		case <-ctx.Done():
			return

		case raw := <-d.in:
			norm := normalizeQuery(raw)
			// Duplicate-suppression happens before the timer: a value
			// identical to what is already pending (or, with nothing
			// pending, to what was last emitted) must not reset it.
			if armed && norm == pending {
				continue
			}
			if !armed && norm == lastEmitted {
				continue
			}
			pending = norm
			armed = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(d.interval)

		case <-timer.C:
			if !armed {
				continue
			}
			armed = false
			if pending == lastEmitted {
				continue
			}
			lastEmitted = pending
			select {
			case d.out <- pending:
			case <-ctx.Done():
				return
			}
		}
	}
}
