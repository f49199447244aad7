package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"logihub/internal/classify"
	"logihub/internal/config"
	"logihub/internal/gateway/tariffstore"
	"logihub/internal/http/handlers"
	"logihub/internal/http/router"
	"logihub/internal/logx"
	"logihub/internal/metrics"
	"logihub/internal/repository"
	"logihub/internal/service/quote"
)

// ContainerBuilder assembles the dependency graph of the API binary.
type ContainerBuilder struct {
	container *dig.Container
	cfg       config.Config
}

// NewContainerBuilder starts a builder for the given configuration.
func NewContainerBuilder(cfg config.Config) *ContainerBuilder {
	return &ContainerBuilder{container: dig.New(), cfg: cfg}
}

// Build registers every provider and returns the container.
func (b *ContainerBuilder) Build(ctx context.Context) (*dig.Container, error) {
	steps := []func(context.Context) error{
		b.registerCore,
		b.registerDb,
		b.registerGateways,
		b.registerServices,
		b.registerHTTP,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, err
		}
	}
	return b.container, nil
}

func (b *ContainerBuilder) registerCore(context.Context) error {
	return provideAll(b.container,
		func() config.Config { return b.cfg },
		func(cfg config.Config) logx.Logger { return newLogger(cfg.LogLevel) },
		func() *prometheus.Registry {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			return reg
		},
		func(reg *prometheus.Registry) *metrics.Metrics { return metrics.New(reg) },
	)
}

func (b *ContainerBuilder) registerDb(ctx context.Context) error {
	return provideAll(b.container,
		func(cfg config.Config, log logx.Logger) (*pgxpool.Pool, error) {
			pool, err := connectDbWithRetry(ctx, cfg.DB.DSN(), log)
			if err != nil {
				return nil, err
			}
			if err := repository.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			return pool, nil
		},
		func(pool *pgxpool.Pool) quote.Store { return repository.NewQuoteRepo(pool) },
	)
}

func (b *ContainerBuilder) registerGateways(context.Context) error {
	return provideAll(b.container,
		func(cfg config.Config, log logx.Logger) *tariffstore.Client {
			if cfg.TariffStore.BaseURL == "" {
				return nil
			}
			return tariffstore.New(cfg.TariffStore.BaseURL, cfg.TariffStore.Token, cfg.TariffStore.Timeout, log)
		},
		func(c *tariffstore.Client) quote.TariffSource {
			if c == nil {
				return nil
			}
			return c
		},
		func(cfg config.Config, log logx.Logger, m *metrics.Metrics) (classify.Classifier, handlers.CacheClearer) {
			base, dirCache := newBaseClassifier(cfg.Classifier, log)
			retrying := classify.NewRetrying(base,
				cfg.Classifier.Retry.MaxAttempts,
				cfg.Classifier.Retry.BaseDelay,
				cfg.Classifier.Retry.MaxDelay,
				log,
				m.GatewayRetries.WithLabelValues("classifier"),
			)
			cached := classify.NewCached(retrying, cfg.Classifier.CacheSize)
			clearers := multiClearer{cached}
			if dirCache != nil {
				clearers = append(clearers, dirCache)
			}
			return cached, clearers
		},
	)
}

func (b *ContainerBuilder) registerServices(context.Context) error {
	return provideAll(b.container,
		func(tariffs quote.TariffSource, classifier classify.Classifier, store quote.Store, log logx.Logger, m *metrics.Metrics) *quote.Engine {
			return quote.NewEngine(tariffs, classifier, store, log, m)
		},
	)
}

func (b *ContainerBuilder) registerHTTP(context.Context) error {
	return provideAll(b.container,
		func(engine *quote.Engine, tariffs *tariffstore.Client, classifier classify.Classifier, cache handlers.CacheClearer, log logx.Logger) *handlers.Handlers {
			var admin handlers.TariffAdmin
			if tariffs != nil {
				admin = tariffs
			}
			return handlers.New(engine, admin, classifier, cache, log)
		},
		func(cfg config.Config, h *handlers.Handlers, m *metrics.Metrics, reg *prometheus.Registry, log logx.Logger) http.Handler {
			deps := router.Deps{
				Handlers: h,
				Metrics:  m,
				Registry: reg,
				Log:      log,
			}
			if cfg.RateLimit.Enabled {
				deps.Limiter = newSweptLimiter(cfg.RateLimit)
			}
			return router.New(deps)
		},
	)
}

func newBaseClassifier(cfg config.Classifier, log logx.Logger) (classify.Classifier, *classify.CachedDirectory) {
	switch cfg.Provider {
	case config.ProviderGemini:
		var (
			dir      classify.CodeDirectory
			dirCache *classify.CachedDirectory
		)
		if cfg.TNVEDBaseURL != "" {
			dirCache = classify.NewCachedDirectory(
				classify.NewTNVEDAPI(nil, cfg.TNVEDBaseURL, cfg.TNVEDAPIKey),
				cfg.CacheSize,
			)
			dir = dirCache
		}
		return classify.NewGemini(nil, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, dir), dirCache
	case config.ProviderTNVEDAPI:
		return classify.NewTNVEDAPI(nil, cfg.TNVEDBaseURL, cfg.TNVEDAPIKey), nil
	default:
		return classify.NewKeyword(), nil
	}
}

// multiClearer fans one cache-clear request out to every provider-side cache.
type multiClearer []interface{ Clear() }

func (m multiClearer) Clear() {
	for _, c := range m {
		c.Clear()
	}
}

func provideAll(c *dig.Container, constructors ...any) error {
	for _, ctor := range constructors {
		if err := c.Provide(ctor); err != nil {
			return err
		}
	}
	return nil
}
