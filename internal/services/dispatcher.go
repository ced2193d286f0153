package services

import (
	"context"
	"log/slog"
	"time"

	"serve-board.com/serve-board/internal/audit"
	"serve-board.com/serve-board/internal/queue"
)

// effects collects audit records and events produced inside a transaction.
// They are dispatched only after the transaction commits.
type effects struct {
	audits []audit.Record
	events []queue.Event
}

func (e *effects) audit(actorID, action, targetID string, metadata map[string]any) {
	e.audits = append(e.audits, audit.Record{
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Metadata: metadata,
	})
}

func (e *effects) emit(event queue.Event) {
	e.events = append(e.events, event)
}

// Dispatcher delivers post-commit side effects. Failures are logged and
// never reach the caller: the primary write has already committed.
type Dispatcher struct {
	publisher queue.Publisher
	sink      audit.Sink
	logger    *slog.Logger
}

func NewDispatcher(publisher queue.Publisher, sink audit.Sink, logger *slog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		publisher: publisher,
		sink:      sink,
		logger:    logger,
	}
}

func (d *Dispatcher) flush(ctx context.Context, fx *effects) {
	if fx == nil {
		return
	}

	for _, rec := range fx.audits {
		if d.sink == nil {
			break
		}
		if err := d.sink.Record(ctx, rec); err != nil {
			d.logger.Error("audit record failed",
				slog.String("action", rec.Action),
				slog.String("target_id", rec.TargetID),
				slog.Any("err", err))
		}
	}

	for _, event := range fx.events {
		if event.OccurredAt.IsZero() {
			event.OccurredAt = time.Now().UTC()
		}
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.logger.Warn("event publish failed",
				slog.String("type", event.Type),
				slog.String("task_id", event.TaskID),
				slog.Any("err", err))
		}
	}
}
