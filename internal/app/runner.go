package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"logihub/internal/config"
	"logihub/internal/http/pprofserver"
	"logihub/internal/logx"
)

const shutdownTimeout = 10 * time.Second

// Run boots the API binary and blocks until SIGINT/SIGTERM.
func Run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := NewContainerBuilder(cfg).Build(ctx)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	return container.Invoke(func(handler http.Handler, log logx.Logger, pool *pgxpool.Pool) error {
		defer pool.Close()
		defer func() { _ = log.Sync() }()

		if cfg.Pprof.Enabled {
			pp := pprofserver.New(cfg.Pprof.Addr, cfg.Pprof.User, cfg.Pprof.Pass, log)
			go func() {
				if err := pp.Run(ctx); err != nil {
					log.Error("pprof server stopped", logx.Any("error", err))
				}
			}()
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		log.Info("http server listening", logx.Int("port", cfg.Port))

		select {
		case <-ctx.Done():
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		}
	})
}
