package api

import (
	"github.com/labstack/echo/v4"

	xhttp "StockMetrics/pkg/http"
)

// Routes registers several handlers on one server.
type Routes []xhttp.Handler

func (r Routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r {
		h.RegisterRoutes(e)
	}
}
