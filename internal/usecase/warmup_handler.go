package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/logger"
)

// WarmUpRequest lists symbols whose bundles should be pre-loaded. Refresh
// rebuilds bundles that are still cached.
type WarmUpRequest struct {
	Symbols []string `json:"symbols"`
	Refresh bool     `json:"refresh,omitempty"`
}

// WarmUpHandler consumes warm-up requests from Kafka and fills the detail cache.
type WarmUpHandler struct {
	topic   string
	detail  *DetailService
	metrics domrepo.Metrics
	logger  *logger.Logger
}

func NewWarmUpHandler(topic string, detail *DetailService, m domrepo.Metrics, l *logger.Logger) *WarmUpHandler {
	return &WarmUpHandler{topic: topic, detail: detail, metrics: m, logger: l}
}

func (h *WarmUpHandler) Topic() string { return h.topic }

// incoming message schema: {"symbols": ["AAPL", "TCS.NS"], "refresh": false}
func (h *WarmUpHandler) Handle(ctx context.Context, b []byte) error {
	var req WarmUpRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode warm-up request: %w", err)
	}
	if len(req.Symbols) == 0 {
		return nil
	}
	warmed := h.detail.Warm(ctx, req.Symbols, req.Refresh)
	h.logger.Info("warm-up: bundles cached",
		logger.Int("requested", len(req.Symbols)),
		logger.Int("warmed", warmed),
		logger.Bool("refresh", req.Refresh),
	)
	return nil
}
