package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockMetrics/pkg/config"
	xhttp "StockMetrics/pkg/http"
	pkgkafka "StockMetrics/pkg/kafka"
	applogger "StockMetrics/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	handler    pkgkafka.MessageHandler
}

// New creates a new App serving httpServer.
func New(cfg *config.Config, l *applogger.Logger, httpServer *xhttp.Server) *App {
	return &App{cfg: cfg, logger: l, httpServer: httpServer}
}

// WithConsumer attaches a Kafka consumer that feeds handler.
func (a *App) WithConsumer(consumer *pkgkafka.Consumer, handler pkgkafka.MessageHandler) *App {
	a.consumer = consumer
	a.handler = handler
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if a.consumer != nil && a.handler != nil {
		a.consumer.RegisterHandler(a.handler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", applogger.String("topic", a.handler.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no new work reaches the consumer's dependencies.
func (a *App) shutdown() error {
	ctx := context.Background()
	if d := a.cfg.Server.ShutdownTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	a.logger.RemoveCollector()
	a.logger.Info("shutdown complete")
	return firstErr
}
