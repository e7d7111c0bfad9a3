package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/clawhouse/platform/internal/infra"
)

// Feed mirrors committed journal entries onto a Kafka topic so external
// reconciliation tooling can tail the ledger. The feed is best-effort:
// entries are already durable in the journal file when they reach it, and
// a publish failure never fails the ledger operation.
type Feed struct {
	producer *infra.KafkaProducer
	topic    string
	logger   *slog.Logger
}

// NewFeed wraps a producer. The producer may be disabled; publishes are
// then no-ops.
func NewFeed(producer *infra.KafkaProducer, topic string, logger *slog.Logger) *Feed {
	return &Feed{producer: producer, topic: topic, logger: logger}
}

// Publish sends each entry keyed by wallet. Safe on a nil feed.
func (f *Feed) Publish(entries []*JournalEntry) {
	if f == nil || f.producer == nil || !f.producer.Enabled() || len(entries) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			f.logger.Error("journal feed encode failed", "entry", e.ID, "error", err)
			continue
		}
		if err := f.producer.Publish(ctx, f.topic, []byte(e.Wallet), payload); err != nil {
			f.logger.Warn("journal feed publish failed", "entry", e.ID, "error", err)
		}
	}
}
