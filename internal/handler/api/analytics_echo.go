package api

import (
	"github.com/labstack/echo/v4"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/usecase"
	xhttp "StockMetrics/pkg/http"
	xlogger "StockMetrics/pkg/logger"
)

// AnalyticsEchoHandler serves insights, screener parsing, statement summaries and learning answers.
type AnalyticsEchoHandler struct {
	logger   *xlogger.Logger
	insights *usecase.InsightsService
}

func NewAnalyticsEchoHandler(logger *xlogger.Logger, insights *usecase.InsightsService) *AnalyticsEchoHandler {
	return &AnalyticsEchoHandler{logger: logger, insights: insights}
}

func (h *AnalyticsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stocks/:symbol/insights", h.Insights)
	g.GET("/stocks/:symbol/beginner", h.Beginner)
	g.GET("/stocks/:symbol/peers", h.Peers)
	g.POST("/analytics/screener", h.Screener)
	g.POST("/analytics/statement-summary", h.StatementSummary)
	g.POST("/learning/ask", h.Ask)
}

// providerHeaders tags every analytics answer with the backend that produced it.
func (h *AnalyticsEchoHandler) providerHeaders(c echo.Context) {
	id, name := h.insights.Provider()
	c.Response().Header().Set("X-Analytics-Provider", id)
	c.Response().Header().Set("X-Analytics-Provider-Name", name)
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
}

func (h *AnalyticsEchoHandler) Insights(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.insights.Insights(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Warn("insights usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return symbolError(c, req.Symbol, err)
	}
	h.providerHeaders(c)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Beginner(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.insights.Beginner(c.Request().Context(), req.Symbol)
	if err != nil {
		return symbolError(c, req.Symbol, err)
	}
	h.providerHeaders(c)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Peers(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.insights.Peers(c.Request().Context(), req.Symbol)
	if err != nil {
		return symbolError(c, req.Symbol, err)
	}
	h.providerHeaders(c)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Screener(c echo.Context) error {
	req := &models.ScreenerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.providerHeaders(c)
	return xhttp.SuccessResponse(c, h.insights.Screener(c.Request().Context(), req.Query))
}

func (h *AnalyticsEchoHandler) StatementSummary(c echo.Context) error {
	req := &models.StatementSummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if len(req.Table.Rows) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("table has no rows"))
	}
	h.providerHeaders(c)
	return xhttp.SuccessResponse(c, h.insights.StatementSummary(c.Request().Context(), req.Table))
}

func (h *AnalyticsEchoHandler) Ask(c echo.Context) error {
	req := &models.LearningRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.providerHeaders(c)
	return xhttp.SuccessResponse(c, h.insights.Ask(c.Request().Context(), req.Question))
}
