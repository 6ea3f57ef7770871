// Worker consumes membership events from Kafka and pushes them to Loki.
// Set KAFKA_BROKERS, EVENTS_KAFKA_TOPIC, KAFKA_GROUP_ID, and LOKI_URL.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/config"
	"tenant-accounts/backend/internal/telemetry/loki"
)

const pushTimeout = 10 * time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type eventPusher interface {
	PushEvent(ctx context.Context, raw []byte) error
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		logger.Fatal("worker: KAFKA_BROKERS is required")
	}
	lokiClient, err := loki.NewClient(cfg.LokiURL, &http.Client{Timeout: pushTimeout})
	if err != nil {
		logger.Fatal("worker: LOKI_URL is required", zap.Error(err))
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.EventsKafkaTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker: consuming",
		zap.String("topic", cfg.EventsKafkaTopic),
		zap.String("group", cfg.KafkaGroupID),
		zap.String("loki", cfg.LokiURL))
	n := consume(ctx, reader, lokiClient, logger)
	logger.Info("worker: stopped", zap.Int("forwarded", n))
}

// consume forwards messages until ctx is done and returns how many were pushed. Read and push
// failures are logged and skipped; the consumer group commits regardless.
func consume(ctx context.Context, r messageReader, p eventPusher, logger *zap.Logger) int {
	forwarded := 0
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return forwarded
			}
			logger.Warn("worker: kafka read error", zap.Error(err))
			continue
		}
		pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
		err = p.PushEvent(pushCtx, msg.Value)
		cancel()
		if err != nil {
			logger.Warn("worker: loki push failed",
				zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}
		forwarded++
	}
}
