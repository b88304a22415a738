package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/internal/usecase"
	xhttp "StockMetrics/pkg/http"
	xlogger "StockMetrics/pkg/logger"
	"StockMetrics/pkg/util"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// QuoteFrame is one push on the quote stream.
type QuoteFrame struct {
	Type   string         `json:"type"`
	At     string         `json:"at"`
	Quotes []models.Quote `json:"quotes"`
}

// StreamHandler pushes fresh quotes for a fixed symbol set over a websocket.
type StreamHandler struct {
	logger     *xlogger.Logger
	resolver   *usecase.Resolver
	market     domrepo.MarketAdapter
	interval   time.Duration
	maxSymbols int

	mu      sync.Mutex
	clients int
}

func NewStreamHandler(logger *xlogger.Logger, detail *usecase.DetailService, interval time.Duration, maxSymbols int) *StreamHandler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if maxSymbols <= 0 {
		maxSymbols = 10
	}
	return &StreamHandler{
		logger:     logger,
		resolver:   detail.Resolver(),
		market:     detail.Adapters().Market,
		interval:   interval,
		maxSymbols: maxSymbols,
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stream/quotes", h.Quotes)
}

// Clients reports the number of open stream connections.
func (h *StreamHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

func (h *StreamHandler) track(delta int) {
	h.mu.Lock()
	h.clients += delta
	h.mu.Unlock()
}

func (h *StreamHandler) Quotes(c echo.Context) error {
	req := &models.StreamRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entities := h.entities(c.Request().Context(), util.SplitCSV(req.Symbols))
	if len(entities) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.UnknownSymbolError(req.Symbols))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", xlogger.Error(err))
		return nil
	}
	h.track(1)
	defer h.track(-1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.readPump(conn, cancel)

	h.writePump(ctx, conn, entities)
	return nil
}

// entities resolves up to maxSymbols distinct symbols, dropping unknown ones.
func (h *StreamHandler) entities(ctx context.Context, symbols []string) []models.SearchEntity {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]models.SearchEntity, 0, len(symbols))
	for _, s := range symbols {
		if len(out) == h.maxSymbols {
			break
		}
		e, err := h.resolver.ResolveBySymbol(ctx, s)
		if err != nil {
			h.logger.Debug("stream: skip symbol", xlogger.String("symbol", s), xlogger.Error(err))
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func (h *StreamHandler) frame(ctx context.Context, entities []models.SearchEntity) QuoteFrame {
	quotes := make([]models.Quote, len(entities))
	var wg sync.WaitGroup
	for i, e := range entities {
		wg.Add(1)
		go func(i int, e models.SearchEntity) {
			defer wg.Done()
			quotes[i] = h.market.Quote(ctx, e)
		}(i, e)
	}
	wg.Wait()
	return QuoteFrame{Type: "quotes", At: util.ISO(time.Now()), Quotes: quotes}
}

func (h *StreamHandler) writePump(ctx context.Context, conn *websocket.Conn, entities []models.SearchEntity) {
	push := time.NewTicker(h.interval)
	ping := time.NewTicker(streamPingPeriod)
	defer func() {
		push.Stop()
		ping.Stop()
		conn.Close()
	}()

	send := func() bool {
		f := h.frame(ctx, entities)
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(f) == nil
	}
	if !send() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(streamWriteWait))
			return
		case <-push.C:
			if !send() {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close are noticed.
func (h *StreamHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("stream closed", xlogger.String("reason", strings.TrimSpace(err.Error())))
			}
			return
		}
	}
}
