package app

import (
	"context"

	"go.uber.org/dig"

	"logihub/internal/config"
	"logihub/internal/logx"
	"logihub/internal/metrics"
	"logihub/internal/service/quote"
	"logihub/internal/service/quoterequests"
	"logihub/internal/transport/kafka"
)

// BuildWorkerContainer assembles the dependency graph of the worker binary.
// It shares the core, db and gateway providers with the API container and
// adds the Kafka consumer on top.
func BuildWorkerContainer(ctx context.Context, cfg config.Config) (*dig.Container, error) {
	b := NewContainerBuilder(cfg)

	steps := []func(context.Context) error{
		b.registerCore,
		b.registerDb,
		b.registerGateways,
		b.registerServices,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, err
		}
	}

	err := provideAll(b.container,
		func(engine *quote.Engine, log logx.Logger, m *metrics.Metrics) *quoterequests.Processor {
			return quoterequests.NewProcessor(engine, log, m)
		},
		func(cfg config.Config, p *quoterequests.Processor, log logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, p, log)
		},
	)
	if err != nil {
		return nil, err
	}
	return b.container, nil
}
