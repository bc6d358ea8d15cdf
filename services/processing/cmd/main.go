package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dsjobs/common/cache"
	rediscache "dsjobs/common/cache/redis"
	"dsjobs/common/database"
	"dsjobs/common/metrics"
	"dsjobs/common/telemetry"
	"dsjobs/services/processing/internal/cleaner"
	"dsjobs/services/processing/internal/config"
	"dsjobs/services/processing/internal/events"
	"dsjobs/services/processing/internal/processor"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newNATSConnection(cfg *config.Config, lc fx.Lifecycle) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("processing-service"),
		nats.RetryOnFailedConnect(true),
	}
	nc, err := nats.Connect(cfg.NATSURL, opts...)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			nc.Close()
			return nil
		},
	})
	return nc, nil
}

func newClickHouseConnection(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (clickhouse.Conn, error) {
	db, err := database.New(context.Background(), database.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db.Conn(), nil
}

func newCache(cfg *config.Config, lc fx.Lifecycle) cache.Cache {
	opts := cache.DefaultOptions()
	opts.RedisAddr = cfg.RedisAddr
	opts.RedisPassword = cfg.RedisPassword
	opts.RedisDB = cfg.RedisDB
	opts.DefaultTTL = cfg.CacheTTL

	c := rediscache.New(opts)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}

func newCleaner(cfg *config.Config, logger *zap.Logger) (*cleaner.Cleaner, error) {
	cleanerCfg, err := cfg.CleanerConfig()
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded cleaner rules",
		zap.Int("current_year", cleanerCfg.CurrentYear),
		zap.String("rules_file", cfg.RulesFile),
		zap.Int("skills", len(cleanerCfg.Skills)))
	return cleaner.New(cleanerCfg)
}

func newMetrics(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (*metrics.Pipeline, error) {
	m, err := metrics.NewPipeline(prometheus.DefaultRegisterer, "processing")
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
					logger.Error("Metrics server stopped", zap.Error(err))
				}
			}()
			logger.Info("Serving metrics", zap.String("addr", cfg.MetricsAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return m, nil
}

func newProcessorOptions(cfg *config.Config) processor.Options {
	return processor.Options{
		Policy:      cfg.FailurePolicy,
		Workers:     cfg.Workers,
		CacheTTL:    cfg.CacheTTL,
		CurrentYear: cfg.CurrentYear,
	}
}

func newTracer(cfg *config.Config, lc fx.Lifecycle) (trace.Tracer, error) {
	shutdown, err := telemetry.InitTracer(context.Background(), "processing-service", cfg.OTELCollectorURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return telemetry.GetTracer("dsjobs/processing"), nil
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newNATSConnection,
			newClickHouseConnection,
			newCache,
			newCleaner,
			newMetrics,
			newProcessorOptions,
			newTracer,
			fx.Annotate(processor.NewClickHouseStore, fx.As(new(processor.Store))),
			fx.Annotate(events.NewRejectionPublisher, fx.As(new(processor.Rejector))),
			processor.NewJobProcessor,
			events.NewHandler,
		),
		fx.Invoke(
			func(handler *events.Handler, lc fx.Lifecycle) error {
				return handler.RegisterSubscriptions(lc)
			},
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
