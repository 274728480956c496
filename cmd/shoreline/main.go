package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pu9052473/shoreline-project/internal/adapter/backend"
	httpadapter "github.com/pu9052473/shoreline-project/internal/adapter/http"
	kafkaadapter "github.com/pu9052473/shoreline-project/internal/adapter/kafka"
	"github.com/pu9052473/shoreline-project/internal/adapter/memory"
	"github.com/pu9052473/shoreline-project/internal/config"
	"github.com/pu9052473/shoreline-project/internal/geomap"
	"github.com/pu9052473/shoreline-project/internal/observability"
	"github.com/pu9052473/shoreline-project/internal/prediction"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer observability.ShutdownTracing(shutdownTracing, logger)

	// Backend strategy is fixed for the life of the process.
	var strategy prediction.Backend
	if cfg.UseMockData {
		strategy = backend.NewMock()
		metrics.MockMode.Set(1)
		logger.Info("mock data mode enabled")
	} else {
		strategy = backend.NewClient(cfg.APIBaseURL, cfg.BackendTimeout, logger)
		logger.Info("prediction backend configured", "base_url", cfg.APIBaseURL, "timeout", cfg.BackendTimeout)
	}

	var opts []prediction.Option
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts = append(opts, prediction.WithResultSink(publisher))
		logger.Info("result publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("result publishing disabled")
	}

	ctrl := prediction.New(strategy, memory.NewHistory(cfg.HistorySize), logger, metrics, opts...)

	mapOpts := geomap.DefaultOptions()
	mapOpts.Size = geomap.Size{Width: float64(cfg.MapWidth), Height: float64(cfg.MapHeight)}
	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, mapOpts, cfg.BackendTimeout+cfg.ShutdownTimeout, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
