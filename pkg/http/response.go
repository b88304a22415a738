package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the standard envelope.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// CachedResponse writes a 200 with a Cache-Control header for shared caches.
func CachedResponse(c echo.Context, cacheControl string, data interface{}) error {
	if cacheControl != "" {
		c.Response().Header().Set(echo.HeaderCacheControl, cacheControl)
	}
	return DataResponse(c, http.StatusOK, data)
}

func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

func InternalServerErrorResponse(c echo.Context) error {
	return DataResponse(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse writes err with its own status; any other error becomes a 500.
// Error responses are never cached.
func AppErrorResponse(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	var appErr *AppError
	if errors.As(err, &appErr) {
		return DataResponse(c, appErr.Status, []*AppError{appErr})
	}
	return InternalServerErrorResponse(c)
}
