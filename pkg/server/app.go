package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CosmoPulse/internal/handler/api"
	"CosmoPulse/internal/usecase"
	pkgch "CosmoPulse/pkg/clickhouse"
	"CosmoPulse/pkg/config"
	xhttp "CosmoPulse/pkg/http"
	pkgkafka "CosmoPulse/pkg/kafka"
	applogger "CosmoPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	cache      *usecase.TransitCache
	proc       *usecase.SnapshotProcessor
	consumer   *pkgkafka.Consumer
	kh         *usecase.KafkaSnapshotsHandler
	chClient   *pkgch.Client
	handler    xhttp.Handler
	hub        *api.WSHub
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	cache *usecase.TransitCache,
	proc *usecase.SnapshotProcessor,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
	hub *api.WSHub,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		cache:    cache,
		proc:     proc,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
		handler:  handler,
		hub:      hub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the shared transit cache: warm start, initial refresh, timer loop.
	if err := a.cache.Start(ctx); err != nil {
		a.logger.Error("transit cache start error", applogger.Error(err))
		return err
	}
	a.logger.Info("transit cache started",
		applogger.String("refresh_interval", a.cfg.Ephemeris.RefreshInterval.String()))

	// Start archive consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop the refresh loop before tearing sinks down
	a.cache.Stop()

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Disconnect live subscribers
	if a.hub != nil {
		_ = a.hub.Close()
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close fanout resources (Kafka producer)
	if a.proc != nil {
		a.proc.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	a.logger.RemoveCollector()
	return nil
}
