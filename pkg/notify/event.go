package notify

import "time"

// Event is the payload delivered to sinks when a fetch reaches a terminal
// state. It carries only presentation-safe data; raw errors never leave the
// view layer.
type Event struct {
	Environment  string    `json:"environment"`
	Query        string    `json:"query"`
	Outcome      string    `json:"outcome"`
	ArticleCount int       `json:"article_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event stamped with the current time.
func NewEvent(environment, query, outcome string, count int, errMessage string) Event {
	return Event{
		Environment:  environment,
		Query:        query,
		Outcome:      outcome,
		ArticleCount: count,
		ErrorMessage: errMessage,
		OccurredAt:   time.Now().UTC(),
	}
}
