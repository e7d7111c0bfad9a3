// journal-consumer tails the ledger journal topic and logs each entry.
// It is the reconciliation hook: point it at the same brokers as the game
// servers and pipe the output into whatever audit tooling operates the
// house books.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/clawhouse/platform/internal/infra"
	"github.com/clawhouse/platform/internal/ledger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("journal consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.KafkaEnabled {
		return fmt.Errorf("KAFKA_ENABLED=false; nothing to consume")
	}

	groupID := os.Getenv("JOURNAL_CONSUMER_GROUP")
	if groupID == "" {
		groupID = "clawhouse-journal-consumer"
	}

	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaJournalTopic, groupID, true, logger)
	defer consumer.Close()

	logger.Info("journal consumer starting", "topic", cfg.KafkaJournalTopic, "group", groupID)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("journal consumer shutting down")
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var entry ledger.JournalEntry
		if err := json.Unmarshal(msg.Value, &entry); err != nil {
			logger.Error("malformed journal entry", "offset", msg.Offset, "error", err)
			continue
		}
		logger.Info("journal entry",
			"id", entry.ID,
			"wallet", entry.Wallet,
			"kind", entry.Kind,
			"amount", entry.Amount,
			"balance", entry.Balance,
			"ref", entry.Ref,
		)
	}
}
