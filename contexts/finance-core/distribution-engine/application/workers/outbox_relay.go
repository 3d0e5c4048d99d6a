package workers

import (
	"context"
	"log/slog"
	"time"

	application "copany/contexts/finance-core/distribution-engine/application"
	"copany/contexts/finance-core/distribution-engine/ports"
)

const relayTopic = "distribution.recomputed"

// OutboxRelay moves pending outbox rows onto the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxReader
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("distribution outbox list failed",
			"event", "distribution_outbox_list_failed",
			"module", "finance-core/distribution-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	for _, event := range pending {
		if err := r.Publisher.Publish(ctx, relayTopic, event); err != nil {
			logger.Error("distribution outbox publish failed",
				"event", "distribution_outbox_publish_failed",
				"module", "finance-core/distribution-engine",
				"layer", "worker",
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, event.EventID, r.now()); err != nil {
			return err
		}
	}
	return nil
}

func (r OutboxRelay) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}
