package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/internal/services/features"
	"StockMetrics/internal/usecase"
	xhttp "StockMetrics/pkg/http"
	xlogger "StockMetrics/pkg/logger"
	"StockMetrics/pkg/util"
)

// Cache-Control values per route family.
const (
	cacheQuote        = "public, s-maxage=30, stale-while-revalidate=300"
	cacheHistory      = "public, s-maxage=300, stale-while-revalidate=3600"
	cacheNews         = "public, s-maxage=600, stale-while-revalidate=3600"
	cacheFilings      = "public, s-maxage=21600, stale-while-revalidate=86400"
	cacheSearch       = "public, s-maxage=3600, stale-while-revalidate=86400"
	cacheDetail       = "private, max-age=15"
	cacheMarketStatus = "public, max-age=60"
)

// StocksEchoHandler serves search, resolution, the detail bundle and its per-category parts.
type StocksEchoHandler struct {
	logger *xlogger.Logger
	detail *usecase.DetailService
	now    func() time.Time
}

func NewStocksEchoHandler(logger *xlogger.Logger, detail *usecase.DetailService) *StocksEchoHandler {
	return &StocksEchoHandler{logger: logger, detail: detail, now: time.Now}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/search", h.Search)
	g.GET("/resolve", h.Resolve)
	g.GET("/stocks/:symbol", h.Detail)
	g.GET("/market/quote", h.Quote)
	g.GET("/market/history", h.History)
	g.GET("/fundamentals", h.Fundamentals)
	g.GET("/news", h.News)
	g.GET("/documents", h.Documents)
	g.GET("/fx/usd-inr", h.FX)
	g.GET("/market-status", h.MarketStatus)
}

// symbolError maps resolver failures onto the HTTP error taxonomy.
func symbolError(c echo.Context, symbol string, err error) error {
	switch {
	case errors.Is(err, domrepo.ErrUnknownSymbol):
		return xhttp.AppErrorResponse(c, xhttp.UnknownSymbolError(symbol).WithError(err))
	case errors.Is(err, domrepo.ErrUpstreamUnavailable):
		return xhttp.AppErrorResponse(c, xhttp.UpstreamUnavailableError("symbol directory").WithError(err))
	}
	return xhttp.AppErrorResponse(c, xhttp.InternalError("could not resolve symbol").WithError(err))
}

func (h *StocksEchoHandler) entity(c echo.Context) (models.SearchEntity, error) {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return models.SearchEntity{}, xhttp.BadRequestResponse(c, verr)
	}
	e, err := h.detail.Resolver().ResolveBySymbol(c.Request().Context(), req.Symbol)
	if err != nil {
		return models.SearchEntity{}, symbolError(c, req.Symbol, err)
	}
	return e, nil
}

func (h *StocksEchoHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	market, _ := domrepo.NormalizeMarket(req.Market)
	limit := util.ClampInt(req.Limit, 1, usecase.MaxSearchLimit)

	res := h.detail.Resolver().Search(c.Request().Context(), req.Query, market, limit)
	return xhttp.CachedResponse(c, cacheSearch, res)
}

func (h *StocksEchoHandler) Resolve(c echo.Context) error {
	e, err := h.entity(c)
	if err != nil || c.Response().Committed {
		return err
	}
	return xhttp.CachedResponse(c, cacheFilings, e)
}

func (h *StocksEchoHandler) Detail(c echo.Context) error {
	req := &models.DetailRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.detail.GetDetailIn(c.Request().Context(), req.Symbol, req.DisplayCurrency)
	if err != nil {
		h.logger.Warn("detail usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return symbolError(c, req.Symbol, err)
	}
	return xhttp.CachedResponse(c, cacheDetail, res)
}

func (h *StocksEchoHandler) Quote(c echo.Context) error {
	e, err := h.entity(c)
	if err != nil || c.Response().Committed {
		return err
	}
	q := h.detail.Adapters().Market.Quote(c.Request().Context(), e)
	return xhttp.CachedResponse(c, cacheQuote, q)
}

func (h *StocksEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	e, err := h.detail.Resolver().ResolveBySymbol(ctx, req.Symbol)
	if err != nil {
		return symbolError(c, req.Symbol, err)
	}

	series := h.detail.Adapters().Market.History(ctx, e, domrepo.NormalizeRange(req.Range))
	series.Points = features.Downsample(series.Points, req.MaxPoints)
	return xhttp.CachedResponse(c, cacheHistory, series)
}

func (h *StocksEchoHandler) Fundamentals(c echo.Context) error {
	e, err := h.entity(c)
	if err != nil || c.Response().Committed {
		return err
	}
	b := h.detail.Adapters().Fundamentals.Fundamentals(c.Request().Context(), e)
	return xhttp.CachedResponse(c, cacheFilings, b)
}

func (h *StocksEchoHandler) News(c echo.Context) error {
	e, err := h.entity(c)
	if err != nil || c.Response().Committed {
		return err
	}
	items := h.detail.Adapters().News.News(c.Request().Context(), e)
	if items == nil {
		items = []models.NewsItem{}
	}
	return xhttp.CachedResponse(c, cacheNews, items)
}

func (h *StocksEchoHandler) Documents(c echo.Context) error {
	e, err := h.entity(c)
	if err != nil || c.Response().Committed {
		return err
	}
	docs := h.detail.Adapters().Documents.Documents(c.Request().Context(), e)
	if docs == nil {
		docs = []models.DocumentLink{}
	}
	return xhttp.CachedResponse(c, cacheFilings, docs)
}

func (h *StocksEchoHandler) FX(c echo.Context) error {
	rate := h.detail.Adapters().FX.USDINR(c.Request().Context())
	return xhttp.CachedResponse(c, cacheFilings, rate)
}

func (h *StocksEchoHandler) MarketStatus(c echo.Context) error {
	req := &models.MarketStatusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	session := util.USSession
	switch models.MarketKind(req.Market) {
	case models.MarketIndia:
		session = util.IndiaSession
	case models.MarketMF:
		session = util.FundSession
	}
	return xhttp.CachedResponse(c, cacheMarketStatus, session.Status(h.now()))
}
