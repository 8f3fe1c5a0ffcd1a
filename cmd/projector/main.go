package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-factory-ledger/internal/config"
	"github.com/ariefcatur/go-factory-ledger/internal/events"
	kafkax "github.com/ariefcatur/go-factory-ledger/internal/kafka"
	"github.com/ariefcatur/go-factory-ledger/internal/logx"
	"github.com/ariefcatur/go-factory-ledger/internal/redisx"
	"github.com/ariefcatur/go-factory-ledger/internal/summary"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logx.New(cfg.Env, cfg.ServiceName+"-projector")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	proj := &summary.Projector{Redis: rdb, Name: "projector", Log: logger}

	// Consumer
	topics := []string{
		events.TopicOrderCreated,
		events.TopicPaymentRecorded,
		events.TopicTransactionAdded,
		events.TopicTransactionDeleted,
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ProjectorGroup, topics, cfg.ProjectorWorkers, logger.Named("kafka"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("projector started",
			zap.String("group", cfg.ProjectorGroup),
			zap.Strings("topics", topics),
			zap.Int("workers", cfg.ProjectorWorkers),
		)
		if err := cons.Start(ctx, proj.HandleEvent); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info("shutting down consumer")
	cancel()
	<-done
}
