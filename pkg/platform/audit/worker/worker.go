// Package worker drains the audit inbox into a store so domain services
// never block on audit persistence.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"ascent/pkg/platform/audit"
)

// ErrInboxFull reports a dropped event from a saturated inbox.
var ErrInboxFull = errors.New("audit inbox full")

type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func New(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes until the context is cancelled. A failed append is logged
// and dropped rather than crashing the worker: audit is observability, not
// the system of record.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"action", event.Action, "error", err)
			}
		}
	}
}

// ChannelPublisher is the in-process Publisher feeding a Worker. Emission
// never blocks the domain call path; a full inbox drops the event.
type ChannelPublisher struct {
	inbox chan<- audit.Event
}

func NewChannelPublisher(inbox chan<- audit.Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(_ context.Context, event audit.Event) error {
	if event.Category == "" {
		event.Category = audit.CategoryOf(event.Action)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return ErrInboxFull
	}
}
