package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"dsjobs/common/metrics"
	"dsjobs/common/telemetry"
	"dsjobs/services/ingestion/internal/config"
	"dsjobs/services/ingestion/internal/loader"
	"dsjobs/services/ingestion/internal/messaging"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newPublisher(logger *zap.Logger, cfg *config.Config, lc fx.Lifecycle) (messaging.Publisher, error) {
	publisher, err := messaging.NewPublisher(logger, cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher, nil
}

func newMetrics(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (*metrics.Pipeline, error) {
	m, err := metrics.NewPipeline(prometheus.DefaultRegisterer, "ingestion")
	if err != nil {
		return nil, err
	}
	if cfg.MetricsAddr == "" {
		return m, nil
	}

	srv := metrics.NewServer(cfg.MetricsAddr, prometheus.DefaultGatherer)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return m, nil
}

func newLoader(publisher messaging.Publisher, logger *zap.Logger, m *metrics.Pipeline, cfg *config.Config) *loader.Loader {
	return loader.NewLoader(publisher, logger, m, cfg.PublishWorkers)
}

func initTracing(cfg *config.Config, lc fx.Lifecycle) error {
	shutdown, err := telemetry.InitTracer(context.Background(), "ingestion-service", cfg.OTELCollectorURL)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

// runLoad publishes the input file once and then shuts the app down.
func runLoad(l *loader.Loader, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			f, err := os.Open(cfg.InputPath)
			if err != nil {
				return err
			}
			logger.Info("starting ingestion",
				zap.String("input", cfg.InputPath),
				zap.Int("workers", cfg.PublishWorkers))

			go func() {
				defer close(done)
				defer f.Close()

				exitCode := 0
				if _, err := l.Load(ctx, f); err != nil {
					logger.Error("ingestion failed", zap.Error(err))
					exitCode = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
					logger.Error("failed to request shutdown", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newPublisher,
			newMetrics,
			newLoader,
		),
		fx.Invoke(initTracing, runLoad),
		fx.NopLogger,
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	sig := <-app.Wait()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
	os.Exit(sig.ExitCode)
}
