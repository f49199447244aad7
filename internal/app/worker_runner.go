package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"logihub/internal/config"
	"logihub/internal/logx"
	"logihub/internal/transport/kafka"
)

// RunWorker boots the quote-request consumer and blocks until SIGINT/SIGTERM.
func RunWorker(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := BuildWorkerContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	return container.Invoke(func(consumer *kafka.Consumer, log logx.Logger, pool *pgxpool.Pool) error {
		defer pool.Close()
		defer func() { _ = log.Sync() }()
		defer func() { _ = consumer.Close() }()

		log.Info("worker consuming",
			logx.String("topic", cfg.Kafka.Topic),
			logx.String("group", cfg.Kafka.GroupID),
		)
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("consumer: %w", err)
		}
		log.Info("worker stopped")
		return nil
	})
}
