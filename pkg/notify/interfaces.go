package notify

import "context"

// Notifier delivers fetch outcome events to a downstream sink (log, webhook).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, evt Event) error
}
