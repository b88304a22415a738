package server

import (
	"context"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"StockMetrics/pkg/config"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/logger"
)

type noRoutes struct{}

func (noRoutes) RegisterRoutes(*echo.Echo) {}

func TestRunContextShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second
	reg := prometheus.NewRegistry()
	srv := xhttp.NewServer(noRoutes{}, logger.Nop(), xhttp.WithPort(0), xhttp.WithMetricsRegistry(reg, reg))
	app := New(cfg, logger.Nop(), srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}
