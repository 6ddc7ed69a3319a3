package feedview

import (
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// StateKind enumerates the lifecycle states of one fetch operation.
type StateKind int

const (
	StateIdle StateKind = iota
	StateLoading
	StateLoaded
	StateEmpty
	StateError
)

// String returns the machine-readable name of the state.
func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ViewState is the current fetch lifecycle snapshot. Exactly one instance is
// current at any time and it is replaced atomically on each transition.
// Articles is populated only for StateLoaded, Message only for StateError.
type ViewState struct {
	Kind     StateKind
	Articles []domain.Article
	Message  string
}

// Idle is the state before the first fetch.
func Idle() ViewState { return ViewState{Kind: StateIdle} }

// Loading marks a fetch in flight.
func Loading() ViewState { return ViewState{Kind: StateLoading} }

// Loaded carries a non-empty fetched article set.
func Loaded(articles []domain.Article) ViewState {
	return ViewState{Kind: StateLoaded, Articles: articles}
}

// Empty marks a successful fetch that returned no articles.
func Empty() ViewState { return ViewState{Kind: StateEmpty} }

// Failed carries the user-facing message for a failed fetch. The raw error
// never travels past this point.
func Failed(message string) ViewState {
	return ViewState{Kind: StateError, Message: message}
}
