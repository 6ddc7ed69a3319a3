package notify

import (
	"context"

	"github.com/samvad-hq/samvad-news-reader/internal/logger"
)

// logNotifier writes events to the structured application log.
type logNotifier struct {
	id string
}

func newLogNotifier(cfg NotifierConfig) (Notifier, error) {
	return &logNotifier{id: cfg.ID}, nil
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return TypeLog }

func (l *logNotifier) Notify(_ context.Context, evt Event) error {
	logger.InfoObj("feed fetch completed", "fetch_event", evt)
	return nil
}
