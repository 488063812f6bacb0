package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/config"
	"github.com/yeo0314/JEPK-creation/internal/events"
	"github.com/yeo0314/JEPK-creation/internal/logger"
)

// order-events prints every event published on the order events topic.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		fmt.Fprintln(os.Stderr, "KAFKA_BROKERS is not set")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	groupID := "order-events-tail"
	if len(os.Args) > 1 {
		groupID = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, groupID, log)
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error("error closing kafka reader", zap.Error(err))
		}
	}()

	log.Info("Tailing order events", zap.String("topic", cfg.Kafka.Topic), zap.String("group", groupID))
	consumer.Run(ctx, func(_ context.Context, ev events.Event) error {
		fmt.Printf("%s  %-22s %-20s %s\n",
			ev.OccurredAt.Format("2006-01-02 15:04:05"), ev.Type, ev.OrderID, ev.Payload)
		return nil
	})
}
