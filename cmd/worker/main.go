package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airline-reservation/config"
	"github.com/Domenick1991/airline-reservation/internal/email"
	"github.com/Domenick1991/airline-reservation/internal/kafka"
	"github.com/Domenick1991/airline-reservation/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, lg.Named("kafka"))
	defer consumer.Close()

	sender := email.NewSender(lg.Named("email"))

	lg.Info("notifications worker started", zap.String("topic", cfg.Kafka.NotificationsTopic))
	if err := consumer.Consume(ctx, sender.Send); err != nil {
		lg.Error("consumer stopped", zap.Error(err))
		return
	}
	lg.Info("notifications worker stopped")
}
