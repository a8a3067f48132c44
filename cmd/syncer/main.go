package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/doorland/catalog-sync/cmd/syncer/config"
	"github.com/doorland/catalog-sync/internal/adapter"
	"github.com/doorland/catalog-sync/internal/classifier"
	"github.com/doorland/catalog-sync/internal/fetcher"
	"github.com/doorland/catalog-sync/internal/handler"
	"github.com/doorland/catalog-sync/internal/images"
	"github.com/doorland/catalog-sync/internal/platform/rabbitmq"
	"github.com/doorland/catalog-sync/internal/platform/storage"
	"github.com/doorland/catalog-sync/internal/platform/tasktrack"
	"github.com/doorland/catalog-sync/internal/reconciler"
	"github.com/doorland/catalog-sync/internal/syncer"
	"github.com/doorland/catalog-sync/metrics"
)

const (
	// UserAgent is the desktop browser user agent used for vendor pages,
	// some vendors refuse obviously non-browser clients.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	conn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ channel")
	}

	if err := conn.DeclareTopology(cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't declare RabbitMQ topology")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store := storage.NewPostgres(pgDB)

	pipeline := images.NewPipeline(
		fetcher.New(&http.Client{Timeout: cfg.HTTPTimeout}, UserAgent),
		cfg.MediaRoot,
		cfg.MediaBaseURL,
	)

	syn := syncer.New(
		adapter.DefaultRegistry(
			UserAgent,
			&logger,
			adapter.WithTimeout(cfg.HTTPTimeout),
			adapter.WithPlaceholderImages(cfg.PlaceholderImages),
		),
		reconciler.New(store, pipeline, &logger),
		classifier.New(),
		store,
		&logger,
	)

	limiter := tasktrack.NewLimiter(
		redisClient,
		cfg.GlobalTaskLimit,
		cfg.OperatorTaskLimit,
		tasktrack.WithLiveTTL(cfg.ReconcileInterval*3),
	)
	statuses := tasktrack.NewStatusStore(redisClient, cfg.StatusTTL)

	han := handler.NewHandler(conn, syn, limiter, statuses, &logger)

	// start consuming and handling messages
	err = han.Start(ctx, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	// self-heal task counters left behind by crashed workers
	go reconcileCounters(ctx, limiter, han, cfg.ReconcileInterval, &logger)

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().
				Err(err).
				Msg("metrics server stopped")
		}
	}()

	logger.Info().Msg("catalog syncer up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumer to finish
	<-conn.Done()

	if err := metricsServer.Shutdown(context.Background()); err != nil {
		logger.Error().
			Err(err).
			Msg("can't shut down metrics server")
	}

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(3)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := redisClient.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close Redis connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}

func reconcileCounters(
	ctx context.Context,
	limiter *tasktrack.Limiter,
	han *handler.RMQHandler,
	interval time.Duration,
	logger *zerolog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := limiter.Reconcile(ctx, han.LiveTasks()); err != nil {
				logger.Error().
					Err(err).
					Msg("can't reconcile task counters")
			}
		}
	}
}
