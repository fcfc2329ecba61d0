package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "yieldbook/contexts/yield-core/distribution-ledger-service/application"
	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"
	contractsv1 "yieldbook/contracts/gen/events/v1"
)

const (
	defaultSettlementTopic = "yield.settlements"
	defaultPeriodTopic     = "yield.periods"
)

// SettlementRelay drains the transactional outbox to the event bus. The
// ledger's bookkeeping is already committed by the time a row lands here; a
// failed publish leaves the row pending and the next cycle retries it, so
// settlement delivery is at-least-once and never rolls the ledger back.
type SettlementRelay struct {
	Outbox          ports.OutboxRepository
	Publisher       ports.EventPublisher
	Clock           ports.Clock
	SettlementTopic string
	PeriodTopic     string
	BatchSize       int
	Logger          *slog.Logger
}

func (r SettlementRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "ledger_outbox_list_failed",
			"module", "yield-core/distribution-ledger-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "ledger_outbox_decode_failed",
				"module", "yield-core/distribution-ledger-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, r.topicFor(envelope.EventType), envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "ledger_outbox_publish_failed",
				"module", "yield-core/distribution-ledger-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "ledger_outbox_mark_sent_failed",
				"module", "yield-core/distribution-ledger-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("settlement relay cycle completed",
			"event", "ledger_outbox_relay_completed",
			"module", "yield-core/distribution-ledger-service",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}

func (r SettlementRelay) topicFor(eventType string) string {
	switch eventType {
	case contractsv1.EventTypeSettlementRequested:
		if r.SettlementTopic != "" {
			return r.SettlementTopic
		}
		return defaultSettlementTopic
	default:
		if r.PeriodTopic != "" {
			return r.PeriodTopic
		}
		return defaultPeriodTopic
	}
}
